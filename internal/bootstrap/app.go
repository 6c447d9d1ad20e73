package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	calcapp "github.com/mohammadpnp/math-server/internal/application/calculation"
	notifyapp "github.com/mohammadpnp/math-server/internal/application/notification"
	personnelapp "github.com/mohammadpnp/math-server/internal/application/personnel"
	"github.com/mohammadpnp/math-server/internal/config"
	"github.com/mohammadpnp/math-server/internal/domain/calculation"
	infrafile "github.com/mohammadpnp/math-server/internal/infrastructure/file"
	"github.com/mohammadpnp/math-server/internal/infrastructure/queue"
	"github.com/mohammadpnp/math-server/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/math-server/internal/interfaces/http/echo"
	"github.com/mohammadpnp/math-server/internal/mathmodel"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type workQueue interface {
	calcapp.Enqueuer
	calcapp.Dequeuer
}

// App holds the wired server components. Build it with NewApp and release it
// with Close.
type App struct {
	Config      *config.Config
	Logger      *logrus.Entry
	Registry    *calculation.Registry
	Coordinator *personnelapp.Coordinator
	Runner      *calcapp.Runner
	Server      *echo.Echo

	db     *gorm.DB
	pool   *pgxpool.Pool
	redis  *redis.Client
	memory *queue.MemoryQueue
}

func NewApp(ctx context.Context, cfg *config.Config, log *logrus.Entry) (*App, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		closeGorm(db)
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	a := &App{Config: cfg, Logger: log, db: db, pool: pool}

	registry, err := mathmodel.NewRegistry()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build model registry: %w", err)
	}
	a.Registry = registry

	jobQueue, err := a.newQueue(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	statuses := repository.NewImportStatusRepository(db)
	batches := repository.NewPersonnelBatchRepository(pool)
	employees := repository.NewEmployeeQueryRepository(db)
	notifications := repository.NewNotificationRepository(db)
	jobs := repository.NewCalculationJobRepository(db)

	a.Coordinator = personnelapp.NewCoordinator(
		statuses,
		infrafile.NewLocalSource(".", cfg.Import.FeedPath),
		batches,
		infrafile.NewAckWriter(cfg.Import.AckPath),
		notifications,
		personnelapp.CoordinatorConfig{
			StaleAfter: cfg.Import.StaleAfter,
			Logger:     log.WithField("component", "import"),
		},
	)

	a.Runner = calcapp.NewRunner(registry, jobs, jobQueue, notifications, calcapp.RunnerConfig{
		Workers: cfg.Jobs.Workers,
		Logger:  log.WithField("component", "calculation"),
	})

	a.Server = NewHTTPServer(httpecho.Handlers{
		Import: httpecho.NewImportHandler(a.Coordinator),
		Calculation: httpecho.NewCalculationHandler(
			calcapp.NewListModels(registry),
			calcapp.NewGetJob(registry, jobs),
			calcapp.NewCalculate(registry, jobs),
			calcapp.NewSubmit(registry, jobs, jobQueue),
		),
		Notification: httpecho.NewNotificationHandler(
			notifyapp.NewListNotifications(notifications),
			notifyapp.NewAcknowledgeNotifications(notifications),
		),
		Employee: httpecho.NewEmployeeHandler(personnelapp.NewGetEmployee(employees)),
	}, cfg.MetricsPath, log.WithField("component", "http"))

	return a, nil
}

func (a *App) newQueue(ctx context.Context) (workQueue, error) {
	if a.Config.Jobs.QueueBackend == config.QueueBackendRedis {
		client := redis.NewClient(&redis.Options{Addr: a.Config.Jobs.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		return queue.NewRedisQueue(client, a.Config.Jobs.RedisQueueKey), nil
	}

	a.memory = queue.NewMemoryQueue(a.Config.Jobs.QueueSize)
	return a.memory, nil
}

// RecoverInterrupted releases jobs a previous process left processing. Only
// the memory backend loses dispatches on exit, so the redis backend keeps
// its processing jobs for the workers to pick up.
func (a *App) RecoverInterrupted(ctx context.Context) (int, error) {
	if a.memory == nil {
		return 0, nil
	}
	return a.Runner.ReleaseInterrupted(ctx)
}

// Drain waits for running imports and calculations. The memory queue is
// closed so workers run every dispatch still queued before exiting; with the
// redis backend stopWorkers cancels them and queued work stays in Redis.
func (a *App) Drain(stopWorkers context.CancelFunc) {
	if a.Coordinator != nil {
		a.Coordinator.Wait()
	}
	if a.memory != nil {
		a.memory.Close()
	} else {
		stopWorkers()
	}
	if a.Runner != nil {
		a.Runner.Wait()
	}
}

func (a *App) Close() {
	if a.memory != nil {
		a.memory.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.WithError(err).Warn("close redis")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		closeGorm(a.db)
	}
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
