package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	// List returns the user's notifications newest first.
	List(ctx context.Context, user string, filter ListFilter) ([]Notification, error)
	// Acknowledge marks the given ids as acknowledged, ignoring ids that belong
	// to other users. It returns the number of rows changed.
	Acknowledge(ctx context.Context, user string, ids []string) (int64, error)
}
