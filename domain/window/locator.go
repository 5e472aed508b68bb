package window

import (
	"errors"
	"log/slog"
)

// Locator resolves the capture target by exact title.
type Locator struct {
	logger *slog.Logger
	find   func(string) (*Window, error)
	list   func() ([]string, error)
}

func NewLocator(logger *slog.Logger) *Locator {
	return &Locator{logger: logger, find: Find, list: ListWindows}
}

// Resolve returns the window titled title. When it does not exist the visible
// window titles are logged to help pick the right one.
func (l *Locator) Resolve(title string) (*Window, error) {
	w, err := l.find(title)
	if err == nil {
		l.log().Info("window.resolved", "title", title, "handle", uintptr(w.Handle()))
		return w, nil
	}
	if errors.Is(err, ErrWindowNotFound) {
		titles, listErr := l.list()
		if listErr != nil {
			l.log().Warn("window.list failed", "err", listErr)
		}
		l.log().Error("window.not_found", "title", title, "visible", titles)
	}
	return nil, err
}

func (l *Locator) log() *slog.Logger {
	if l.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.logger
}
