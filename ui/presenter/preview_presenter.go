package presenter

import (
	"image"
	"image/color"
	"time"

	"github.com/soocke/pixel-line-go/domain/capture"
	"github.com/soocke/pixel-line-go/ui/images"
	"github.com/soocke/pixel-line-go/ui/model"
)

// DetectionSource exposes the latest detection to the UI thread.
type DetectionSource interface {
	Latest() (model.Detection, bool)
}

// CaptureStats reports capture loop instrumentation.
type CaptureStats interface {
	Stats() capture.Stats
}

// PreviewView shows the annotated crop.
type PreviewView interface {
	UpdatePreview(img image.Image)
}

// StatsView displays one line of loop statistics.
type StatsView interface {
	SetStats(s Stats)
}

// Stats is the summary pushed to StatsView on every tick.
type Stats struct {
	FPS          float64
	HitRatio     float64
	Found        bool
	AngleDeg     float64
	Magnitude    float64
	CaptureState capture.State
	FrameAge     time.Duration
}

// PreviewPresenter renders the latest detection and loop statistics. It runs
// on the UI thread and only redraws the preview when a new detection arrived.
type PreviewPresenter struct {
	detections DetectionSource
	rate       *model.RateModel
	capture    CaptureStats
	cfg        ConfigSource
	preview    PreviewView
	stats      StatsView
	lastAt     time.Time
}

func NewPreviewPresenter(detections DetectionSource, rate *model.RateModel, capture CaptureStats, cfg ConfigSource, preview PreviewView, stats StatsView) *PreviewPresenter {
	return &PreviewPresenter{detections: detections, rate: rate, capture: capture, cfg: cfg, preview: preview, stats: stats}
}

// Tick pushes fresh values to the views.
func (p *PreviewPresenter) Tick(now time.Time) {
	if p == nil || p.detections == nil {
		return
	}
	var s Stats
	s.FPS, s.HitRatio, _ = p.rate.Values()
	if p.capture != nil {
		cs := p.capture.Stats()
		s.CaptureState = cs.State
		s.FrameAge = cs.LatestFrameAge
	}
	d, ok := p.detections.Latest()
	if ok {
		s.Found = d.Found()
		s.AngleDeg = d.Direction.Degrees()
		s.Magnitude = d.Direction.Len()
		if !d.At.Equal(p.lastAt) && p.preview != nil && d.Crop != nil {
			p.lastAt = d.At
			p.preview.UpdatePreview(Annotate(d, p.lineColor()))
		}
	}
	if p.stats != nil {
		p.stats.SetStats(s)
	}
}

func (p *PreviewPresenter) lineColor() color.Color {
	if p.cfg != nil {
		cfg := p.cfg.Snapshot()
		if c, err := cfg.LineRGBA(); err == nil {
			return c
		}
	}
	return color.RGBA{G: 0xFF, A: 0xFF}
}

// Annotate returns a copy of the detection's crop with the detected line
// extended across it and the pointer marked.
func Annotate(d model.Detection, c color.Color) *image.NRGBA {
	out := image.NewNRGBA(d.Crop.Bounds())
	copy(out.Pix, d.Crop.Pix)
	if d.Found() {
		a, b := images.ExtendToBounds(d.Direction.X, d.Direction.Y, d.Local, out.Bounds())
		images.DrawLine(out, a, b, c)
	}
	const arm = 4
	marker := color.RGBA{R: 0xFF, A: 0xFF}
	images.DrawLine(out, d.Local.Add(image.Pt(-arm, 0)), d.Local.Add(image.Pt(arm, 0)), marker)
	images.DrawLine(out, d.Local.Add(image.Pt(0, -arm)), d.Local.Add(image.Pt(0, arm)), marker)
	return out
}
