package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/mohammadpnp/math-server/internal/domain/notification"
	"github.com/mohammadpnp/math-server/internal/logging"
	"github.com/mohammadpnp/math-server/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	internalFailureMessage = "Внутренняя ошибка при выполнении расчета"
	saveFailureMessage     = "Не удалось сохранить результат расчета"
	interruptedMessage     = "Расчет прерван остановкой сервера"
)

type Dequeuer interface {
	// Dequeue blocks until a dispatch is available or ctx is done. A closed
	// queue reports domain.ErrQueueClosed once it has nothing left.
	Dequeue(ctx context.Context) (domain.Dispatch, error)
}

type notificationCreator interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
}

type RunnerConfig struct {
	Workers int
	// RetryInterval is the pause after a failed Dequeue.
	RetryInterval time.Duration
	Logger        *logrus.Entry
}

// Runner is a fixed pool of workers that executes async calculations taken
// from the work queue.
type Runner struct {
	registry *domain.Registry
	jobs     domain.JobRepository
	queue    Dequeuer
	notifier notificationCreator
	cfg      RunnerConfig

	once sync.Once
	wg   sync.WaitGroup
}

func NewRunner(registry *domain.Registry, jobs domain.JobRepository, queue Dequeuer, notifier notificationCreator, cfg RunnerConfig) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	cfg.Logger = logging.OrNop(cfg.Logger)

	return &Runner{
		registry: registry,
		jobs:     jobs,
		queue:    queue,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Start launches the workers once. They stop after finishing the run they
// are on when ctx is cancelled, or when the queue is closed and drained.
func (r *Runner) Start(ctx context.Context) {
	r.once.Do(func() {
		for i := 0; i < r.cfg.Workers; i++ {
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				r.workerLoop(ctx)
			}()
		}
	})
}

func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d, err := r.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrQueueClosed) {
				r.cfg.Logger.Debug("work queue closed, worker exiting")
				return
			}
			if ctx.Err() != nil {
				return
			}
			r.cfg.Logger.WithError(err).Error("dequeue calculation failed")
			if !sleepWithContext(ctx, r.cfg.RetryInterval) {
				return
			}
			continue
		}

		// Runs are not cancellable once started.
		if err := r.Handle(context.WithoutCancel(ctx), d); err != nil {
			r.cfg.Logger.WithError(err).WithFields(logrus.Fields{
				"job_kind": d.Kind,
				"job_id":   d.JobID,
			}).Error("handle calculation failed")
		}
	}
}

// Handle performs one run: idle to running, then ready or failed, with a
// notification to the job owner. A job that no longer exists is skipped.
func (r *Runner) Handle(ctx context.Context, d domain.Dispatch) error {
	log := r.cfg.Logger.WithFields(logrus.Fields{"job_kind": d.Kind, "job_id": d.JobID})

	job, err := r.jobs.Get(ctx, d.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			log.Warn("calculation job not found, skipping")
			return nil
		}
		return fmt.Errorf("%w: %v", ErrLoadJob, err)
	}
	log = log.WithField("user", job.User)

	model, err := r.registry.Lookup(job.Kind)
	if err != nil {
		job.MarkFailed()
		if saveErr := r.jobs.Save(ctx, job); saveErr != nil {
			log.WithError(saveErr).Error("save failed job")
		}
		r.notify(ctx, log, notification.Failure(job.User, string(job.Kind), string(job.Kind), internalFailureMessage))
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
	desc := model.Describe()

	job.MarkRunning()
	if err := r.jobs.Save(ctx, job); err != nil {
		log.WithError(err).Error("save running job")
	}

	started := time.Now()
	output, runErr := runModel(model, job.Input)
	elapsed := time.Since(started).Seconds()

	if runErr != nil {
		message := internalFailureMessage
		if calcErr, ok := domain.AsError(runErr); ok {
			message = calcErr.Message
			log.WithError(runErr).Warn("calculation rejected input")
		} else {
			log.WithError(runErr).Error("calculation failed")
		}

		job.MarkFailed()
		if err := r.jobs.Save(ctx, job); err != nil {
			log.WithError(err).Error("save failed job")
		}
		r.notify(ctx, log, notification.Failure(job.User, string(job.Kind), desc.VerboseName, message))
		metrics.Get().CalculationFinished(string(job.Kind), elapsed, false)
		return nil
	}

	job.MarkReady(output)
	if err := r.jobs.Save(ctx, job); err != nil {
		log.WithError(err).Error("save ready job")
		job.MarkFailed()
		if revertErr := r.jobs.Save(ctx, job); revertErr != nil {
			log.WithError(revertErr).Error("revert job state")
		}
		r.notify(ctx, log, notification.Failure(job.User, string(job.Kind), desc.VerboseName, saveFailureMessage))
		metrics.Get().CalculationFinished(string(job.Kind), elapsed, false)
		return nil
	}

	r.notify(ctx, log, notification.Success(job.User, string(job.Kind), desc.VerboseName))
	metrics.Get().CalculationFinished(string(job.Kind), elapsed, true)
	log.WithField("seconds", elapsed).Info("calculation finished")
	return nil
}

// ReleaseInterrupted fails every job left processing by a previous process
// whose dispatch can no longer run, and notifies each owner. It must not run
// while workers of another process may still pick those jobs up.
func (r *Runner) ReleaseInterrupted(ctx context.Context) (int, error) {
	released, err := r.jobs.ReleaseProcessing(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSaveJob, err)
	}

	for _, job := range released {
		log := r.cfg.Logger.WithFields(logrus.Fields{"job_kind": job.Kind, "job_id": job.ID, "user": job.User})
		log.Warn("interrupted calculation released")

		name := string(job.Kind)
		if model, err := r.registry.Lookup(job.Kind); err == nil {
			name = model.Describe().VerboseName
		}
		r.notify(ctx, log, notification.Failure(job.User, string(job.Kind), name, interruptedMessage))
	}
	return len(released), nil
}

func (r *Runner) notify(ctx context.Context, log *logrus.Entry, n notification.Notification) {
	if _, err := r.notifier.Create(ctx, n); err != nil {
		log.WithError(err).Error("create calculation notification failed")
	}
}

func runModel(model domain.Model, input json.RawMessage) (output json.RawMessage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("calculation panicked: %v", rec)
		}
	}()
	return model.Calculate(input)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
