package presenter

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-line-go/config"
	"github.com/soocke/pixel-line-go/domain/capture"
	"github.com/soocke/pixel-line-go/domain/linedetect"
	"github.com/soocke/pixel-line-go/ui/images"
	"github.com/soocke/pixel-line-go/ui/model"
)

// FrameSource supplies the most recent frame captured from the target window.
type FrameSource interface {
	Latest() (capture.Snapshot, bool)
	WaitFirst(ctx context.Context) (capture.Snapshot, error)
}

// ConfigSource hands out one configuration snapshot per call.
type ConfigSource interface {
	Snapshot() config.Config
}

// Detector finds the line direction near a pointer inside an image.
type Detector interface {
	Detect(img image.Image, pointer image.Point, p linedetect.Params) linedetect.Vector
}

// Renderer consumes detection results.
type Renderer interface {
	Render(d model.Detection)
}

// Renderers fans a detection out to several renderers in order.
type Renderers []Renderer

func (rs Renderers) Render(d model.Detection) {
	for _, r := range rs {
		if r != nil {
			r.Render(d)
		}
	}
}

// FrameLoop reads the latest capture at a fixed rate, crops the area around
// the pointer and runs the detector on it.
type FrameLoop struct {
	Source   FrameSource
	Config   ConfigSource
	Pointer  func() (image.Point, error)
	Detector Detector
	Renderer Renderer
	Rate     *model.RateModel
	Enabled  func() bool // nil means always enabled
	Stop     func() bool // polled once per iteration; true ends Run

	// FirstFrameTimeout bounds the warm-up wait in Run. Zero means two seconds.
	FirstFrameTimeout time.Duration

	logger   *slog.Logger
	overruns atomic.Uint64
}

// NewFrameLoop constructs a frame loop. Enabled, Stop and Rate may be set on
// the returned value.
func NewFrameLoop(source FrameSource, cfg ConfigSource, pointer func() (image.Point, error), detector Detector, renderer Renderer, logger *slog.Logger) *FrameLoop {
	return &FrameLoop{
		Source:   source,
		Config:   cfg,
		Pointer:  pointer,
		Detector: detector,
		Renderer: renderer,
		logger:   logger,
	}
}

// Run waits once for the first frame and then ticks at the configured rate
// until ctx is done or Stop reports true. A capture source that fails or is
// slow to start does not end the loop: iterations are skipped until a frame
// is available and the last good frame is reused after a failure.
func (l *FrameLoop) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	l.awaitFirst(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if l.logger != nil {
		l.logger.Info("frameloop.started")
	}

	fps := l.Config.Snapshot().TargetFPS
	ticker := time.NewTicker(period(fps))
	defer ticker.Stop()

	for {
		if l.Stop != nil && l.Stop() {
			if l.logger != nil {
				l.logger.Info("frameloop.stop requested")
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		l.Tick()
		if next := l.Config.Snapshot().TargetFPS; next != fps {
			fps = next
			ticker.Reset(period(fps))
		}
	}
}

func (l *FrameLoop) awaitFirst(ctx context.Context) {
	timeout := l.FirstFrameTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := l.Source.WaitFirst(wctx)
	if err == nil || ctx.Err() != nil || l.logger == nil {
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		l.logger.Warn("frameloop.awaiting first frame", "timeout", timeout)
		return
	}
	l.logger.Warn("frameloop.no frame", "error", err)
}

// Overruns returns how many iterations took longer than the frame period.
func (l *FrameLoop) Overruns() uint64 { return l.overruns.Load() }

// Tick performs one iteration and reports whether a result was rendered.
// Iterations without a frame, without a pointer position or with a crop
// smaller than the minimum are skipped.
func (l *FrameLoop) Tick() bool {
	if l.Enabled != nil && !l.Enabled() {
		return false
	}
	cfg := l.Config.Snapshot()
	snap, ok := l.Source.Latest()
	if !ok {
		return false
	}
	pointer, err := l.Pointer()
	if err != nil {
		if l.logger != nil {
			l.logger.Debug("frameloop.pointer", "error", err)
		}
		return false
	}
	local := images.ToFrame(pointer, snap.Rect.Rectangle().Min)
	region, inCrop, ok := images.PointerRegion(snap.Frame.Bounds(), local, cfg.CaptureSize)
	if !ok {
		return false
	}

	start := time.Now()
	crop := snap.Frame.Crop(region)
	dir := l.Detector.Detect(crop, inCrop, cfg.Params())
	d := model.Detection{
		Direction: dir,
		Pointer:   pointer,
		Local:     inCrop,
		Region:    region,
		Crop:      crop,
		Sequence:  snap.Sequence,
		Elapsed:   time.Since(start),
		At:        time.Now(),
	}
	if budget := period(cfg.TargetFPS); d.Elapsed > budget {
		l.overruns.Add(1)
		if l.logger != nil {
			l.logger.Debug("frameloop.overrun", "elapsed", d.Elapsed, "budget", budget, "capture_size", cfg.CaptureSize)
		}
	}
	l.Rate.Observe(d.Found(), d.At)
	if l.Renderer != nil {
		l.Renderer.Render(d)
	}
	return true
}

func period(fps int) time.Duration {
	if fps <= 0 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}
