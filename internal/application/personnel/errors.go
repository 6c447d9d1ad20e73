package personnel

import "errors"

var (
	ErrFeedUnavailable   = errors.New("feed document unavailable")
	ErrExtraction        = errors.New("feed extraction failed")
	ErrAckWrite          = errors.New("failed to write acknowledgement")
	ErrAcquireImport     = errors.New("failed to acquire import lock")
	ErrInvalidBool       = errors.New("invalid boolean value")
	ErrInvalidDate       = errors.New("invalid date value")
	ErrInvalidExternalID = errors.New("invalid employee external id")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrGetEmployee       = errors.New("failed to get employee")
)
