package capture

import "time"

// Stats summarises capture loop behaviour for instrumentation.
type Stats struct {
	State            State
	Captures         uint64
	Failures         uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
