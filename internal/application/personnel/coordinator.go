package personnel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mohammadpnp/math-server/internal/domain/notification"
	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
	"github.com/mohammadpnp/math-server/internal/logging"
	"github.com/mohammadpnp/math-server/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	ImportJobKindID   = "nsi_data_import"
	importVerboseName = "Импорт данных НСИ"
)

type FeedSource interface {
	Load(ctx context.Context) (*domain.Document, error)
}

type AckEmitter interface {
	Emit(ctx context.Context, accepted []domain.Record) error
}

type notificationCreator interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
}

type RequestImportOutput struct {
	Accepted     bool       `json:"accepted"`
	ImportID     string     `json:"import_id,omitempty"`
	PendingSince *time.Time `json:"pending_since,omitempty"`
	PendingUser  string     `json:"pending_user,omitempty"`
}

type CoordinatorConfig struct {
	Parsers   []ParserSpec
	KindOrder []domain.EntityKind
	// StaleAfter releases a pending import older than this on the next
	// request. Zero keeps a pending import until it finishes or is cleared
	// by hand.
	StaleAfter time.Duration
	Logger     *logrus.Entry
}

// Coordinator runs feed imports one at a time. The pending ImportStatus row is
// the lock; RequestImport takes it and the background pipeline always
// releases it.
type Coordinator struct {
	statuses  domain.ImportStatusRepository
	source    FeedSource
	persister *Persister
	ack       AckEmitter
	notifier  notificationCreator
	cfg       CoordinatorConfig

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewCoordinator(
	statuses domain.ImportStatusRepository,
	source FeedSource,
	writer domain.BatchWriter,
	ack AckEmitter,
	notifier notificationCreator,
	cfg CoordinatorConfig,
) *Coordinator {
	if cfg.Parsers == nil {
		cfg.Parsers = DefaultParsers()
	}
	if cfg.KindOrder == nil {
		cfg.KindOrder = domain.KindOrder()
	}
	cfg.Logger = logging.OrNop(cfg.Logger)

	return &Coordinator{
		statuses:  statuses,
		source:    source,
		persister: NewPersister(writer, cfg.Logger),
		ack:       ack,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// RequestImport starts an import for user unless one is already pending, in
// which case the pending requester and start time are returned instead. The
// pipeline runs in the background; its outcome is delivered as a notification.
func (c *Coordinator) RequestImport(ctx context.Context, user string) (RequestImportOutput, error) {
	status, acquired, err := c.acquire(ctx, user)
	if err != nil {
		return RequestImportOutput{}, fmt.Errorf("%w: %v", ErrAcquireImport, err)
	}
	if !acquired {
		since := status.CreatedAt
		return RequestImportOutput{
			Accepted:     false,
			PendingSince: &since,
			PendingUser:  status.RequestedBy,
		}, nil
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.Run(context.WithoutCancel(ctx), status)
	}()

	return RequestImportOutput{Accepted: true, ImportID: status.ID}, nil
}

func (c *Coordinator) acquire(ctx context.Context, user string) (domain.ImportStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.statuses.AcquirePending(ctx, user, c.cfg.StaleAfter)
}

// Wait blocks until every started pipeline has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Run executes the pipeline for an acquired status. Whatever the outcome,
// it emits exactly one notification and releases the status.
func (c *Coordinator) Run(ctx context.Context, status domain.ImportStatus) (err error) {
	log := c.cfg.Logger.WithFields(logrus.Fields{"import_id": status.ID, "user": status.RequestedBy})
	log.Info("import started")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import panicked: %v", r)
		}
		c.finish(ctx, log, status, err)
	}()

	return c.pipeline(ctx, log)
}

func (c *Coordinator) pipeline(ctx context.Context, log *logrus.Entry) error {
	doc, err := c.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	recordsByKind, err := Extract(doc, c.cfg.Parsers)
	if err != nil {
		return err
	}

	accepted := c.persister.Persist(ctx, recordsByKind, c.cfg.KindOrder)

	if err := c.ack.Emit(ctx, accepted); err != nil {
		return fmt.Errorf("%w: %v", ErrAckWrite, err)
	}

	log.WithField("accepted", len(accepted)).Info("import finished")
	return nil
}

func (c *Coordinator) finish(ctx context.Context, log *logrus.Entry, status domain.ImportStatus, runErr error) {
	n := notification.Success(status.RequestedBy, ImportJobKindID, importVerboseName)
	if runErr != nil {
		log.WithError(runErr).Error("import failed")
		n = notification.Failure(status.RequestedBy, ImportJobKindID, importVerboseName, failureMessage(runErr))
	}

	if _, err := c.notifier.Create(ctx, n); err != nil {
		log.WithError(err).Error("create import notification failed")
	}
	if err := c.statuses.Release(ctx, status.ID); err != nil {
		log.WithError(err).Error("release import lock failed")
	}
	metrics.Get().ImportFinished(runErr == nil)
}

// Status returns the most recent import status, or nil before the first import.
func (c *Coordinator) Status(ctx context.Context) (*domain.ImportStatus, error) {
	return c.statuses.Latest(ctx)
}

// ReleasePending clears a lock left behind by a process that died mid-import.
func (c *Coordinator) ReleasePending(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.statuses.ReleaseAll(ctx)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrFeedUnavailable):
		return "Ошибка чтения данных из НСИ!"
	case errors.Is(err, ErrExtraction):
		return "Ошибка разбора данных НСИ: " + err.Error()
	case errors.Is(err, ErrAckWrite):
		return "Ошибка записи квитанции о загрузке данных"
	default:
		return err.Error()
	}
}
