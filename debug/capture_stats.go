package debug

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/pixel-line-go/domain/capture"
)

// StatsProvider is implemented by *capture.Source.
type StatsProvider interface {
	Stats() capture.Stats
}

// StartCaptureStatsLogger logs the capture counters every interval.
func StartCaptureStatsLogger(ctx context.Context, interval time.Duration, p StatsProvider, logger *slog.Logger) {
	if p == nil {
		return
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go every(ctx, interval, func() { LogCaptureStats(p.Stats(), logger) })
}

// LogCaptureStats writes one "capture.health" record.
func LogCaptureStats(s capture.Stats, logger *slog.Logger) {
	logger.Info("capture.health",
		slog.String("state", s.State.String()),
		slog.Uint64("captures", s.Captures),
		slog.Uint64("failures", s.Failures),
		slog.Float64("avg_capture_us", s.AvgCaptureMicros),
		slog.Duration("frame_age", s.LatestFrameAge),
		slog.Uint64("sequence", s.Sequence),
	)
}
