package model

import (
	"sync/atomic"
)

// CaptureModel tracks whether line detection is enabled. Capture itself keeps
// running; a disabled model only pauses the frame loop's work.
// Concurrency-safe via atomic Bool because UI callbacks and the frame loop race.
type CaptureModel struct{ enabled atomic.Bool }

// NewCaptureModel returns a model with the given initial state.
func NewCaptureModel(enabled bool) *CaptureModel {
	m := &CaptureModel{}
	m.enabled.Store(enabled)
	return m
}

// Enabled reports whether detection is currently enabled.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag and reports whether it changed.
func (m *CaptureModel) SetEnabled(b bool) bool {
	if m == nil {
		return false
	}
	return m.enabled.CompareAndSwap(!b, b)
}
