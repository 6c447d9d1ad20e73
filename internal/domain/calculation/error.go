package calculation

import (
	"errors"
	"fmt"
)

// Error is a domain validation failure raised by a model's Calculate. Its
// message is shown to the user as is.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string) error {
	return &Error{Message: message}
}

func Errorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// AsError reports whether err is, or wraps, a calculation Error.
func AsError(err error) (*Error, bool) {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr, true
	}
	return nil, false
}

var (
	ErrUnknownKind   = errors.New("unknown calculation kind")
	ErrDuplicateKind = errors.New("duplicate calculation kind")
	ErrJobNotFound   = errors.New("calculation job not found")

	// ErrQueueClosed is returned by a work queue that was closed and has
	// nothing left to hand out.
	ErrQueueClosed = errors.New("work queue is closed")
)
