package calculation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/mohammadpnp/math-server/internal/domain/notification"
	"github.com/mohammadpnp/math-server/internal/mathmodel"
	"github.com/stretchr/testify/require"
)

const (
	failingKind domain.Kind = "failingmodel"
	panickyKind domain.Kind = "panickymodel"
	brokenKind  domain.Kind = "brokenmodel"
)

type stubModel struct {
	desc domain.Description
	run  func(json.RawMessage) (json.RawMessage, error)
}

func (s stubModel) Calculate(input json.RawMessage) (json.RawMessage, error) {
	return s.run(input)
}

func (s stubModel) Describe() domain.Description {
	return s.desc
}

func newTestRegistry(t *testing.T, extra ...domain.Model) *domain.Registry {
	t.Helper()

	models := []domain.Model{
		mathmodel.NewSimpleCalculator(),
		mathmodel.NewAsyncCalculator(),
		stubModel{
			desc: domain.Description{ID: failingKind, VerboseName: "Сбойная модель", Async: true},
			run: func(json.RawMessage) (json.RawMessage, error) {
				return nil, domain.New("missing X")
			},
		},
		stubModel{
			desc: domain.Description{ID: panickyKind, VerboseName: "Паникующая модель", Async: true},
			run: func(json.RawMessage) (json.RawMessage, error) {
				panic("index out of range")
			},
		},
		stubModel{
			desc: domain.Description{ID: brokenKind, VerboseName: "Сломанная модель"},
			run: func(json.RawMessage) (json.RawMessage, error) {
				return nil, errors.New("disk full")
			},
		},
	}
	registry, err := domain.NewRegistry(append(models, extra...)...)
	require.NoError(t, err)
	return registry
}

type fakeJobRepo struct {
	mu         sync.Mutex
	jobs       map[string]domain.Job
	seq        int
	saveErr    error
	getErr     error
	releaseErr error
	saves      int
	observed   []domain.State

	// loaded runs after GetOrCreate has read the job, outside the lock.
	loaded func()
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]domain.Job)}
}

func (f *fakeJobRepo) GetOrCreate(ctx context.Context, user string, kind domain.Kind) (*domain.Job, error) {
	job := f.getOrCreate(user, kind)
	if f.loaded != nil {
		f.loaded()
	}
	return &job, nil
}

func (f *fakeJobRepo) getOrCreate(user string, kind domain.Kind) domain.Job {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, job := range f.jobs {
		if job.User == user && job.Kind == kind {
			return job
		}
	}
	f.seq++
	job := domain.Job{ID: fmt.Sprintf("job-%d", f.seq), User: user, Kind: kind}
	f.jobs[job.ID] = job
	return job
}

func (f *fakeJobRepo) Get(ctx context.Context, id string) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (f *fakeJobRepo) Save(ctx context.Context, job *domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if job.IsReady && job.IsProcessing {
		return errors.New("job cannot be ready and processing")
	}
	f.jobs[job.ID] = *job
	f.observed = append(f.observed, job.State())
	return nil
}

func (f *fakeJobRepo) TryMarkProcessing(ctx context.Context, id string, input json.RawMessage) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok {
		return false, domain.ErrJobNotFound
	}
	if job.IsProcessing {
		return false, nil
	}
	job.Input = input
	job.MarkRunning()
	f.jobs[id] = job
	return true, nil
}

func (f *fakeJobRepo) ReleaseProcessing(ctx context.Context) ([]domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	released := make([]domain.Job, 0)
	for id, job := range f.jobs {
		if !job.IsProcessing {
			continue
		}
		job.MarkFailed()
		f.jobs[id] = job
		released = append(released, job)
	}
	return released, nil
}

func (f *fakeJobRepo) stored(id string) domain.Job {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.jobs[id]
}

func (f *fakeJobRepo) put(job domain.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.jobs[job.ID] = job
}

type fakeQueue struct {
	ch     chan domain.Dispatch
	err    error
	done   chan struct{}
	closer sync.Once
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{ch: make(chan domain.Dispatch, 16), done: make(chan struct{})}
}

func (f *fakeQueue) Close() {
	f.closer.Do(func() { close(f.done) })
}

func (f *fakeQueue) Enqueue(ctx context.Context, d domain.Dispatch) error {
	if f.err != nil {
		return f.err
	}
	f.ch <- d
	return nil
}

func (f *fakeQueue) Dequeue(ctx context.Context) (domain.Dispatch, error) {
	select {
	case d := <-f.ch:
		return d, nil
	default:
	}

	select {
	case <-ctx.Done():
		return domain.Dispatch{}, ctx.Err()
	case d := <-f.ch:
		return d, nil
	case <-f.done:
		select {
		case d := <-f.ch:
			return d, nil
		default:
			return domain.Dispatch{}, domain.ErrQueueClosed
		}
	}
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	items []notification.Notification
}

func (f *fakeNotifier) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return notification.Notification{}, f.err
	}
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeNotifier) all() []notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]notification.Notification, len(f.items))
	copy(out, f.items)
	return out
}
