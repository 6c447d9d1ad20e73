package calculation

import "errors"

var (
	ErrUnknownJobKind   = errors.New("unknown job kind")
	ErrNotSync          = errors.New("job kind runs asynchronously")
	ErrNotAsync         = errors.New("job kind runs synchronously")
	ErrJobBusy          = errors.New("job is already processing")
	ErrQueueUnavailable = errors.New("work queue unavailable")
	ErrInvalidUser      = errors.New("invalid user")
	ErrLoadJob          = errors.New("failed to load job")
	ErrSaveJob          = errors.New("failed to save job")
	ErrCalculate        = errors.New("calculation failed")
)
