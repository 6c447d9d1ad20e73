package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type AcknowledgeNotificationsInput struct {
	User string
	IDs  []string
}

type AcknowledgeNotificationsOutput struct {
	Acknowledged int64 `json:"acknowledged"`
}

// AcknowledgeNotifications marks notifications read. Ids owned by other users
// or unknown ids are ignored.
type AcknowledgeNotifications interface {
	Execute(ctx context.Context, in AcknowledgeNotificationsInput) (AcknowledgeNotificationsOutput, error)
}

type notificationAcknowledger interface {
	Acknowledge(ctx context.Context, user string, ids []string) (int64, error)
}

type acknowledgeNotifications struct {
	repo notificationAcknowledger
}

func NewAcknowledgeNotifications(repo notificationAcknowledger) AcknowledgeNotifications {
	return &acknowledgeNotifications{repo: repo}
}

func (uc *acknowledgeNotifications) Execute(ctx context.Context, in AcknowledgeNotificationsInput) (AcknowledgeNotificationsOutput, error) {
	user := strings.TrimSpace(in.User)
	if user == "" {
		return AcknowledgeNotificationsOutput{}, ErrInvalidUser
	}

	seen := make(map[string]struct{}, len(in.IDs))
	ids := make([]string, 0, len(in.IDs))
	for _, raw := range in.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return AcknowledgeNotificationsOutput{}, fmt.Errorf("%w: %q", ErrInvalidIDs, raw)
		}
		key := id.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ids = append(ids, key)
	}
	if len(ids) == 0 {
		return AcknowledgeNotificationsOutput{}, nil
	}

	n, err := uc.repo.Acknowledge(ctx, user, ids)
	if err != nil {
		return AcknowledgeNotificationsOutput{}, fmt.Errorf("%w: %v", ErrAcknowledgeNotifications, err)
	}
	return AcknowledgeNotificationsOutput{Acknowledged: n}, nil
}
