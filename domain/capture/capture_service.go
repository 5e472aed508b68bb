package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	defaultStopTimeout      = time.Second
)

// Source captures one window continuously on its own goroutine and publishes
// the latest (Frame, WindowRect) pair. Readers never block the loop: each
// cycle builds a complete Snapshot and swaps it in with a single atomic store.
type Source struct {
	window  Window
	grabber Grabber
	logger  *slog.Logger

	state   atomic.Int32
	latest  atomic.Pointer[Snapshot]
	failure atomic.Pointer[error]

	stopping  atomic.Bool
	stopCh    chan struct{}
	done      chan struct{}
	ready     chan struct{}
	stopOnce  sync.Once
	readyOnce sync.Once

	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64

	stopTimeout time.Duration
	pause       time.Duration
}

// Option customises a Source.
type Option func(*Source)

// WithStopTimeout bounds how long Stop waits for the loop to exit.
func WithStopTimeout(d time.Duration) Option { return func(s *Source) { s.stopTimeout = d } }

// WithPause inserts a sleep between capture cycles.
func WithPause(d time.Duration) Option { return func(s *Source) { s.pause = d } }

// NewSource returns a Source in the Created state.
func NewSource(w Window, g Grabber, logger *slog.Logger, opts ...Option) *Source {
	s := &Source{
		window:      w,
		grabber:     g,
		logger:      logger,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
		ready:       make(chan struct{}),
		stopTimeout: defaultStopTimeout,
		pause:       200 * time.Microsecond,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start launches the capture loop. It may be called once.
func (s *Source) Start() error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateCapturing)) {
		return ErrAlreadyStarted
	}
	go s.loop()
	return nil
}

// Stop signals the loop and waits up to the stop timeout for it to exit.
// A loop that does not exit in time is abandoned with a warning. The last
// published snapshot stays readable.
func (s *Source) Stop() {
	s.stopping.Store(true)
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
		s.readyOnce.Do(func() { close(s.ready) })
		return
	}
	select {
	case <-s.done:
	case <-time.After(s.stopTimeout):
		if s.logger != nil {
			s.logger.Warn("capture.stop timeout", "timeout", s.stopTimeout)
		}
	}
	s.state.CompareAndSwap(int32(StateCapturing), int32(StateStopped))
}

// Latest returns the most recent snapshot. ok is false until the first
// frame has been captured.
func (s *Source) Latest() (Snapshot, bool) {
	snap := s.latest.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// WaitFirst blocks until the first snapshot is available, the loop ends
// without one, or ctx is done.
func (s *Source) WaitFirst(ctx context.Context) (Snapshot, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	if snap, ok := s.Latest(); ok {
		return snap, nil
	}
	if err := s.Err(); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{}, ErrStopped
}

// State returns the current lifecycle state.
func (s *Source) State() State { return State(s.state.Load()) }

// Err returns the error that stopped the loop, if any.
func (s *Source) Err() error {
	if p := s.failure.Load(); p != nil {
		return *p
	}
	return nil
}

// Done is closed when the capture loop has exited.
func (s *Source) Done() <-chan struct{} { return s.done }

// Stats returns capture counters and timings.
func (s *Source) Stats() Stats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot, _ := s.Latest()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return Stats{
		State:            s.State(),
		Captures:         captures,
		Failures:         s.failures.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *Source) loop() {
	defer close(s.done)
	defer s.readyOnce.Do(func() { close(s.ready) })

	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		if err := s.cycle(); err != nil {
			s.fail(err)
			return
		}

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		if s.pause > 0 {
			time.Sleep(s.pause)
		}
	}
}

// cycle restores the window if minimised, measures its client area, grabs
// that area and publishes the pair.
func (s *Source) cycle() error {
	start := time.Now()
	if s.window.Iconic() {
		if err := s.window.Restore(); err != nil && s.logger != nil {
			s.logger.Warn("capture.restore", "error", err)
		}
	}
	r, err := s.window.ClientRect()
	if err != nil {
		return fmt.Errorf("client rect: %w", err)
	}
	if r.Empty() {
		return fmt.Errorf("%w: %v", ErrEmptyClientArea, r)
	}
	frame, captured, err := s.grabber.Grab(r)
	if err != nil {
		return fmt.Errorf("grab %v: %w", r, err)
	}
	if s.stopping.Load() {
		return nil
	}

	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.captures.Add(1)
	seq := s.sequence.Add(1)
	s.latest.Store(&Snapshot{
		Frame:      frame,
		Rect:       RectFrom(captured),
		Sequence:   seq,
		CapturedAt: time.Now(),
	})
	s.readyOnce.Do(func() { close(s.ready) })
	return nil
}

func (s *Source) fail(err error) {
	err = fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	s.failure.Store(&err)
	s.failures.Add(1)
	s.state.CompareAndSwap(int32(StateCapturing), int32(StateFailed))
	if s.logger != nil {
		s.logger.Error("capture.failure", "error", err, "captures", s.captures.Load())
	}
}

func (s *Source) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
		"sequence", stats.Sequence,
	)
}
