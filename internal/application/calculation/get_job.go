package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
)

type GetJobInput struct {
	User string
	Kind domain.Kind
}

type JobOutput struct {
	ID           string             `json:"id"`
	Model        domain.Description `json:"model"`
	State        domain.State       `json:"state"`
	Input        json.RawMessage    `json:"input"`
	Output       json.RawMessage    `json:"output"`
	IsReady      bool               `json:"is_ready"`
	IsProcessing bool               `json:"is_processing"`
}

type GetJob interface {
	Execute(ctx context.Context, in GetJobInput) (JobOutput, error)
}

type getJob struct {
	registry *domain.Registry
	jobs     domain.JobRepository
}

func NewGetJob(registry *domain.Registry, jobs domain.JobRepository) GetJob {
	return &getJob{registry: registry, jobs: jobs}
}

func (uc *getJob) Execute(ctx context.Context, in GetJobInput) (JobOutput, error) {
	model, job, err := loadJob(ctx, uc.registry, uc.jobs, in.User, in.Kind)
	if err != nil {
		return JobOutput{}, err
	}
	return toJobOutput(model.Describe(), job), nil
}

// loadJob resolves kind and returns the user's instance of it, creating the
// instance on first access.
func loadJob(ctx context.Context, registry *domain.Registry, jobs domain.JobRepository, user string, kind domain.Kind) (domain.Model, *domain.Job, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, nil, ErrInvalidUser
	}

	model, err := registry.Lookup(kind)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownKind) {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownJobKind, kind)
		}
		return nil, nil, err
	}

	job, err := jobs.GetOrCreate(ctx, user, kind)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrLoadJob, err)
	}
	return model, job, nil
}

func toJobOutput(desc domain.Description, job *domain.Job) JobOutput {
	return JobOutput{
		ID:           job.ID,
		Model:        desc,
		State:        job.State(),
		Input:        nullIfEmpty(job.Input),
		Output:       nullIfEmpty(job.Output),
		IsReady:      job.IsReady,
		IsProcessing: job.IsProcessing,
	}
}

func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
