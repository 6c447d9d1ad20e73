package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
	"github.com/mohammadpnp/math-server/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

// importLockKey is the advisory lock id that serialises import acquisition
// across server processes sharing a database.
const importLockKey int64 = 7_236_001

type ImportStatusRepository struct {
	db *gorm.DB
}

func NewImportStatusRepository(db *gorm.DB) *ImportStatusRepository {
	return &ImportStatusRepository{db: db}
}

func (r *ImportStatusRepository) AcquirePending(ctx context.Context, user string, staleAfter time.Duration) (domain.ImportStatus, bool, error) {
	var (
		status   domain.ImportStatus
		acquired bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", importLockKey).Error; err != nil {
			return fmt.Errorf("lock import statuses: %w", err)
		}

		now := time.Now().UTC()
		if staleAfter > 0 {
			if err := tx.Model(&models.ImportStatus{}).
				Where("is_pending = ? AND created_at < ?", true, now.Add(-staleAfter)).
				Update("is_pending", false).Error; err != nil {
				return fmt.Errorf("release stale imports: %w", err)
			}
		}

		var pending models.ImportStatus
		err := tx.Where("is_pending = ?", true).Order("created_at DESC").Take(&pending).Error
		if err == nil {
			status = toImportStatus(pending)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find pending import: %w", err)
		}

		row := models.ImportStatus{
			ID:          uuid.NewString(),
			RequestedBy: user,
			IsPending:   true,
			CreatedAt:   now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create import status: %w", err)
		}
		status = toImportStatus(row)
		acquired = true
		return nil
	})
	if err != nil {
		return domain.ImportStatus{}, false, err
	}

	return status, acquired, nil
}

func (r *ImportStatusRepository) Release(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.ImportStatus{}).
		Where("id = ? AND is_pending = ?", id, true).
		Update("is_pending", false).Error
	if err != nil {
		return fmt.Errorf("release import status: %w", err)
	}
	return nil
}

func (r *ImportStatusRepository) ReleaseAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ImportStatus{}).
		Where("is_pending = ?", true).
		Update("is_pending", false)
	if res.Error != nil {
		return 0, fmt.Errorf("release pending imports: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *ImportStatusRepository) Latest(ctx context.Context) (*domain.ImportStatus, error) {
	var row models.ImportStatus

	err := r.db.WithContext(ctx).Order("created_at DESC").Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest import status: %w", err)
	}

	status := toImportStatus(row)
	return &status, nil
}

func toImportStatus(row models.ImportStatus) domain.ImportStatus {
	return domain.ImportStatus{
		ID:          row.ID,
		RequestedBy: row.RequestedBy,
		CreatedAt:   row.CreatedAt,
		IsPending:   row.IsPending,
	}
}
