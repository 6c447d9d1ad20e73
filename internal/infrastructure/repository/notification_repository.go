package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/math-server/internal/domain/notification"
	"github.com/mohammadpnp/math-server/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	row := models.Notification{
		ID:             uuid.NewString(),
		UserName:       n.User,
		JobKindID:      n.JobKindID,
		CreatedAt:      time.Now().UTC(),
		IsSuccess:      n.IsSuccess,
		Description:    n.Description,
		IsAcknowledged: n.IsAcknowledged,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return toNotification(row), nil
}

func (r *NotificationRepository) List(ctx context.Context, user string, filter domain.ListFilter) ([]domain.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("user_name = ?", user).
		Order("created_at DESC").
		Order("id DESC")
	if filter.UnacknowledgedOnly {
		query = query.Where("is_acknowledged = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, toNotification(row))
	}
	return out, nil
}

func (r *NotificationRepository) Acknowledge(ctx context.Context, user string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_name = ? AND id IN ? AND is_acknowledged = ?", user, ids, false).
		Update("is_acknowledged", true)
	if res.Error != nil {
		return 0, fmt.Errorf("acknowledge notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toNotification(row models.Notification) domain.Notification {
	return domain.Notification{
		ID:             row.ID,
		User:           row.UserName,
		JobKindID:      row.JobKindID,
		CreatedAt:      row.CreatedAt,
		IsSuccess:      row.IsSuccess,
		Description:    row.Description,
		IsAcknowledged: row.IsAcknowledged,
	}
}
