package model

import (
	"sync"
	"time"
)

// RateModel measures how often the frame loop runs and how often it finds a
// line, over consecutive fixed windows. The zero value uses a one second
// window.
type RateModel struct {
	mu     sync.Mutex
	window time.Duration
	start  time.Time
	ticks  int
	hits   int

	fps      float64
	hitRatio float64
	total    uint64
}

func NewRateModel(window time.Duration) *RateModel { return &RateModel{window: window} }

// Observe records one loop iteration at now.
func (m *RateModel) Observe(found bool, now time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	window := m.window
	if window <= 0 {
		window = time.Second
	}
	if m.start.IsZero() {
		m.start = now
	}
	m.ticks++
	m.total++
	if found {
		m.hits++
	}
	if elapsed := now.Sub(m.start); elapsed >= window {
		m.fps = float64(m.ticks) / elapsed.Seconds()
		m.hitRatio = float64(m.hits) / float64(m.ticks)
		m.start = now
		m.ticks, m.hits = 0, 0
	}
}

// Values returns the rate and hit ratio of the last completed window and the
// number of iterations observed overall.
func (m *RateModel) Values() (fps, hitRatio float64, total uint64) {
	if m == nil {
		return 0, 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps, m.hitRatio, m.total
}
