package window

import "errors"

// Handle is an opaque native window handle.
type Handle uintptr

var (
	// ErrWindowNotFound is returned when no top-level window carries the
	// requested title.
	ErrWindowNotFound = errors.New("window not found")
	// ErrUnsupported is returned on platforms without a window backend.
	ErrUnsupported = errors.New("window: unsupported platform")
)

// VKInsert is the virtual-key code of the Insert key, used as the exit key.
const VKInsert = 0x2D
