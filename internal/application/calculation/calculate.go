package calculation

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
)

type CalculateInput struct {
	User  string
	Kind  domain.Kind
	Input json.RawMessage
}

type CalculateOutput struct {
	JobID  string          `json:"job_id"`
	Output json.RawMessage `json:"output"`
}

// Calculate runs a sync model inline. A *calculation.Error from the model is
// returned unwrapped so callers can show its message.
type Calculate interface {
	Execute(ctx context.Context, in CalculateInput) (CalculateOutput, error)
}

type calculate struct {
	registry *domain.Registry
	jobs     domain.JobRepository
}

func NewCalculate(registry *domain.Registry, jobs domain.JobRepository) Calculate {
	return &calculate{registry: registry, jobs: jobs}
}

func (uc *calculate) Execute(ctx context.Context, in CalculateInput) (CalculateOutput, error) {
	model, job, err := loadJob(ctx, uc.registry, uc.jobs, in.User, in.Kind)
	if err != nil {
		return CalculateOutput{}, err
	}
	if model.Describe().Async {
		return CalculateOutput{}, fmt.Errorf("%w: %s", ErrNotSync, in.Kind)
	}

	job.Input = in.Input
	if err := uc.jobs.Save(ctx, job); err != nil {
		return CalculateOutput{}, fmt.Errorf("%w: %v", ErrSaveJob, err)
	}

	output, err := model.Calculate(in.Input)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return CalculateOutput{}, err
		}
		return CalculateOutput{}, fmt.Errorf("%w: %v", ErrCalculate, err)
	}

	job.Output = output
	if err := uc.jobs.Save(ctx, job); err != nil {
		return CalculateOutput{}, fmt.Errorf("%w: %v", ErrSaveJob, err)
	}

	return CalculateOutput{JobID: job.ID, Output: output}, nil
}
