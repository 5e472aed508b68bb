package presenter

import "time"

// Loop drives the UI-thread presenters and invokes a scheduler callback.
//
// When Stop reports true the loop calls OnStop instead of rescheduling.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Preview  *PreviewPresenter
	Schedule func()
	Stop     func() bool
	OnStop   func()
}

func NewLoop(preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	if l.Stop != nil && l.Stop() {
		if l.OnStop != nil {
			l.OnStop()
		}
		return
	}
	if l.Preview != nil {
		l.Preview.Tick(time.Now())
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
