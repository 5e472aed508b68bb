package app

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-line-go/config"
	"github.com/soocke/pixel-line-go/domain/capture"
	"github.com/soocke/pixel-line-go/domain/linedetect"
	"github.com/soocke/pixel-line-go/domain/window"
	"github.com/soocke/pixel-line-go/ui/model"
	"github.com/soocke/pixel-line-go/ui/presenter"
)

// AppContainer assembles the services, models and the frame loop. The Tk views
// are built later on the UI goroutine.
type AppContainer struct {
	Loader *config.Loader
	Config *config.Store
	Logger *slog.Logger

	Window    *window.Window
	Source    *capture.Source
	Detector  *linedetect.Detector
	Capture   *model.CaptureModel
	Detection *model.DetectionModel
	Rate      *model.RateModel
	FrameLoop *presenter.FrameLoop

	stop atomic.Bool
}

// BuildContainer resolves the target window and wires capture into the
// frame loop. It fails when the window cannot be found.
func BuildContainer(loader *config.Loader, cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	store, err := config.NewStore(*cfg)
	if err != nil {
		return nil, err
	}
	w, err := window.NewLocator(logger.With("component", "window")).Resolve(cfg.WindowTitle)
	if err != nil {
		return nil, err
	}
	grabber, err := newGrabber(cfg.Backend, w)
	if err != nil {
		return nil, err
	}
	c := newContainer(loader, store, logger, w, grabber, window.CursorPos)
	c.Window = w
	return c, nil
}

func newContainer(loader *config.Loader, store *config.Store, logger *slog.Logger, w capture.Window, grabber capture.Grabber, pointer func() (image.Point, error)) *AppContainer {
	cfg := store.Snapshot()
	c := &AppContainer{Loader: loader, Config: store, Logger: logger}
	c.Source = capture.NewSource(w, grabber, logger.With("component", "capture"))

	c.Detector = linedetect.NewDetector(logger.With("component", "detector"))
	c.Capture = model.NewCaptureModel(true)
	c.Detection = model.NewDetectionModel()
	c.Rate = model.NewRateModel(time.Second)

	interval := time.Second
	if !cfg.Headless {
		interval = 5 * time.Second
	}
	renderers := presenter.Renderers{presenter.NewLogRenderer(logger.With("component", "frameloop"), c.Rate, interval)}
	if !cfg.Headless {
		renderers = append(renderers, c.Detection)
	}
	c.FrameLoop = presenter.NewFrameLoop(c.Source, store, pointer, c.Detector, renderers, logger.With("component", "frameloop"))
	c.FrameLoop.Rate = c.Rate
	c.FrameLoop.Enabled = c.Capture.Enabled
	c.FrameLoop.Stop = c.Stopped
	return c
}

// RequestStop asks the frame loop to end after its current iteration.
func (c *AppContainer) RequestStop() { c.stop.Store(true) }

// Stopped reports whether a stop was requested.
func (c *AppContainer) Stopped() bool { return c.stop.Load() }

func newGrabber(backend string, w *window.Window) (capture.Grabber, error) {
	switch backend {
	case config.BackendGDI:
		return capture.NewGDIGrabber(w.Handle()), nil
	case config.BackendScreen:
		return capture.NewScreenGrabber(), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, backend)
}
