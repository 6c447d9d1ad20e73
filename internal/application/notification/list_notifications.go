package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/math-server/internal/domain/notification"
)

const MaxListLimit = 500

type ListNotificationsInput struct {
	User               string
	UnacknowledgedOnly bool
	// Limit of zero returns every matching notification.
	Limit int
}

type NotificationOutput struct {
	ID             string    `json:"id"`
	JobKindID      string    `json:"job_kind_id"`
	CreatedAt      time.Time `json:"created_at"`
	IsSuccess      bool      `json:"is_success"`
	Description    string    `json:"description"`
	IsAcknowledged bool      `json:"is_acknowledged"`
}

type ListNotifications interface {
	Execute(ctx context.Context, in ListNotificationsInput) ([]NotificationOutput, error)
}

type notificationLister interface {
	List(ctx context.Context, user string, filter domain.ListFilter) ([]domain.Notification, error)
}

type listNotifications struct {
	repo notificationLister
}

func NewListNotifications(repo notificationLister) ListNotifications {
	return &listNotifications{repo: repo}
}

func (uc *listNotifications) Execute(ctx context.Context, in ListNotificationsInput) ([]NotificationOutput, error) {
	user := strings.TrimSpace(in.User)
	if user == "" {
		return nil, ErrInvalidUser
	}
	if in.Limit < 0 || in.Limit > MaxListLimit {
		return nil, fmt.Errorf("%w: must be between 0 and %d", ErrInvalidLimit, MaxListLimit)
	}

	items, err := uc.repo.List(ctx, user, domain.ListFilter{
		UnacknowledgedOnly: in.UnacknowledgedOnly,
		Limit:              in.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListNotifications, err)
	}

	out := make([]NotificationOutput, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationOutput{
			ID:             n.ID,
			JobKindID:      n.JobKindID,
			CreatedAt:      n.CreatedAt,
			IsSuccess:      n.IsSuccess,
			Description:    n.Description,
			IsAcknowledged: n.IsAcknowledged,
		})
	}
	return out, nil
}
