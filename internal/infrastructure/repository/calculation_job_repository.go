package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/mohammadpnp/math-server/internal/infrastructure/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CalculationJobRepository struct {
	db *gorm.DB
}

func NewCalculationJobRepository(db *gorm.DB) *CalculationJobRepository {
	return &CalculationJobRepository{db: db}
}

func (r *CalculationJobRepository) GetOrCreate(ctx context.Context, user string, kind domain.Kind) (*domain.Job, error) {
	db := r.db.WithContext(ctx)

	fresh := models.CalculationJob{
		ID:       uuid.NewString(),
		UserName: user,
		Kind:     string(kind),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_name"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("create calculation job: %w", err)
	}

	var row models.CalculationJob
	if err := db.Where("user_name = ? AND kind = ?", user, string(kind)).Take(&row).Error; err != nil {
		return nil, fmt.Errorf("get calculation job: %w", err)
	}
	return toJob(row), nil
}

func (r *CalculationJobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrJobNotFound
	}

	var row models.CalculationJob
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("get calculation job: %w", err)
	}
	return toJob(row), nil
}

func (r *CalculationJobRepository) Save(ctx context.Context, job *domain.Job) error {
	res := r.db.WithContext(ctx).
		Model(&models.CalculationJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{
			"input":         jsonColumn(job.Input),
			"output":        jsonColumn(job.Output),
			"is_ready":      job.IsReady,
			"is_processing": job.IsProcessing,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("save calculation job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *CalculationJobRepository) TryMarkProcessing(ctx context.Context, id string, input json.RawMessage) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CalculationJob{}).
		Where("id = ? AND is_processing = ?", id, false).
		Updates(map[string]any{
			"input":         jsonColumn(input),
			"is_processing": true,
			"is_ready":      false,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark calculation job processing: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *CalculationJobRepository) ReleaseProcessing(ctx context.Context) ([]domain.Job, error) {
	var rows []models.CalculationJob
	err := r.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("is_processing = ?", true).
		Updates(map[string]any{
			"is_processing": false,
			"is_ready":      false,
			"updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("release processing calculation jobs: %w", err)
	}

	out := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toJob(row))
	}
	return out, nil
}

func jsonColumn(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}

func toJob(row models.CalculationJob) *domain.Job {
	job := &domain.Job{
		ID:           row.ID,
		User:         row.UserName,
		Kind:         domain.Kind(row.Kind),
		IsReady:      row.IsReady,
		IsProcessing: row.IsProcessing,
	}
	if len(row.Input) > 0 {
		job.Input = json.RawMessage(row.Input)
	}
	if len(row.Output) > 0 {
		job.Output = json.RawMessage(row.Output)
	}
	return job
}
