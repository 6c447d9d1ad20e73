package calculation

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
)

// Enqueuer hands a dispatch to the worker pool without waiting for it to run.
type Enqueuer interface {
	Enqueue(ctx context.Context, d domain.Dispatch) error
}

type SubmitInput struct {
	User  string
	Kind  domain.Kind
	Input json.RawMessage
}

type SubmitOutput struct {
	JobID string       `json:"job_id"`
	State domain.State `json:"state"`
}

type Submit interface {
	Execute(ctx context.Context, in SubmitInput) (SubmitOutput, error)
}

type submit struct {
	registry *domain.Registry
	jobs     domain.JobRepository
	queue    Enqueuer
}

func NewSubmit(registry *domain.Registry, jobs domain.JobRepository, queue Enqueuer) Submit {
	return &submit{registry: registry, jobs: jobs, queue: queue}
}

func (uc *submit) Execute(ctx context.Context, in SubmitInput) (SubmitOutput, error) {
	model, job, err := loadJob(ctx, uc.registry, uc.jobs, in.User, in.Kind)
	if err != nil {
		return SubmitOutput{}, err
	}
	if !model.Describe().Async {
		return SubmitOutput{}, fmt.Errorf("%w: %s", ErrNotAsync, in.Kind)
	}
	if job.IsProcessing {
		return SubmitOutput{}, ErrJobBusy
	}

	marked, err := uc.jobs.TryMarkProcessing(ctx, job.ID, in.Input)
	if err != nil {
		return SubmitOutput{}, fmt.Errorf("%w: %v", ErrSaveJob, err)
	}
	if !marked {
		return SubmitOutput{}, ErrJobBusy
	}
	job.Input = in.Input
	job.MarkRunning()

	if err := uc.queue.Enqueue(ctx, domain.Dispatch{Kind: job.Kind, JobID: job.ID}); err != nil {
		job.MarkFailed()
		if saveErr := uc.jobs.Save(ctx, job); saveErr != nil {
			return SubmitOutput{}, fmt.Errorf("%w: %v; revert failed: %v", ErrQueueUnavailable, err, saveErr)
		}
		return SubmitOutput{}, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	return SubmitOutput{JobID: job.ID, State: job.State()}, nil
}
