package notification

import "errors"

var (
	ErrInvalidUser              = errors.New("invalid user")
	ErrInvalidLimit             = errors.New("invalid limit")
	ErrInvalidIDs               = errors.New("invalid notification ids")
	ErrListNotifications        = errors.New("failed to list notifications")
	ErrAcknowledgeNotifications = errors.New("failed to acknowledge notifications")
)
