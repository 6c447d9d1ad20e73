package calculation

import (
	"context"
	"encoding/json"
)

type JobRepository interface {
	// GetOrCreate returns the user's instance of kind, creating an idle one
	// on first access.
	GetOrCreate(ctx context.Context, user string, kind Kind) (*Job, error)
	Get(ctx context.Context, id string) (*Job, error)
	Save(ctx context.Context, job *Job) error
	// TryMarkProcessing atomically stores input and flips the instance to
	// processing. It reports false, leaving the row untouched, when the
	// instance is already processing.
	TryMarkProcessing(ctx context.Context, id string, input json.RawMessage) (bool, error)
	// ReleaseProcessing marks every processing instance as failed and returns
	// the released instances.
	ReleaseProcessing(ctx context.Context) ([]Job, error)
}
