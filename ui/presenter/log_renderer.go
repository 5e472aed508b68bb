package presenter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/pixel-line-go/ui/model"
)

// LogRenderer reports detections through the logger at most once per
// interval. It is the renderer used when no UI is shown.
type LogRenderer struct {
	logger   *slog.Logger
	rate     *model.RateModel
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func NewLogRenderer(logger *slog.Logger, rate *model.RateModel, interval time.Duration) *LogRenderer {
	if interval <= 0 {
		interval = time.Second
	}
	return &LogRenderer{logger: logger, rate: rate, interval: interval}
}

func (r *LogRenderer) Render(d model.Detection) {
	if r == nil || r.logger == nil {
		return
	}
	r.mu.Lock()
	if !r.last.IsZero() && d.At.Sub(r.last) < r.interval {
		r.mu.Unlock()
		return
	}
	r.last = d.At
	r.mu.Unlock()

	fps, hit, _ := r.rate.Values()
	if !d.Found() {
		r.logger.Info("detection.none",
			"pointer_x", d.Pointer.X,
			"pointer_y", d.Pointer.Y,
			"fps", fps,
			"sequence", d.Sequence,
		)
		return
	}
	r.logger.Info("detection",
		"pointer_x", d.Pointer.X,
		"pointer_y", d.Pointer.Y,
		"dx", d.Direction.X,
		"dy", d.Direction.Y,
		"angle_deg", d.Direction.Degrees(),
		"magnitude", d.Direction.Len(),
		"elapsed", d.Elapsed,
		"fps", fps,
		"hit_ratio", hit,
		"sequence", d.Sequence,
	)
}
