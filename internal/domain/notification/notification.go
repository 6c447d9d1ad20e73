package notification

import (
	"fmt"
	"strings"
	"time"
)

// MaxDescriptionLength is the longest description, in runes, that is stored.
const MaxDescriptionLength = 255

// Notification is the outcome record of an import or async calculation run.
// It is created once per terminal outcome and only ever acknowledged after that.
type Notification struct {
	ID             string
	User           string
	JobKindID      string
	CreatedAt      time.Time
	IsSuccess      bool
	Description    string
	IsAcknowledged bool
}

func Success(user, jobKindID, verboseName string) Notification {
	return Notification{
		User:        user,
		JobKindID:   jobKindID,
		IsSuccess:   true,
		Description: fmt.Sprintf("%s: операция завершена успешно", verboseName),
	}
}

func Failure(user, jobKindID, verboseName, message string) Notification {
	return Notification{
		User:        user,
		JobKindID:   jobKindID,
		IsSuccess:   false,
		Description: truncate(fmt.Sprintf("%s: ошибка. %s", verboseName, strings.TrimSpace(message))),
	}
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxDescriptionLength {
		return text
	}
	return string(runes[:MaxDescriptionLength])
}

type ListFilter struct {
	UnacknowledgedOnly bool
	Limit              int
}
