package personnel

import (
	"context"
	"time"
)

type ImportStatusRepository interface {
	// AcquirePending atomically checks for a pending import and, when there is
	// none, creates one for user. When another import is pending it returns
	// that row and acquired=false. Pending rows older than staleAfter are
	// released first; zero disables the check.
	AcquirePending(ctx context.Context, user string, staleAfter time.Duration) (status ImportStatus, acquired bool, err error)
	Release(ctx context.Context, id string) error
	ReleaseAll(ctx context.Context) (int64, error)
	Latest(ctx context.Context) (*ImportStatus, error)
}

type BatchWriter interface {
	UpsertBatch(ctx context.Context, kind EntityKind, records []Record) (BatchResult, error)
}

type EmployeeQueryRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*EmployeeView, error)
}
