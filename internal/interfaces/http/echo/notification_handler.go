package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/math-server/internal/application/notification"
)

type NotificationHandler struct {
	list        app.ListNotifications
	acknowledge app.AcknowledgeNotifications
}

type listNotificationsQuery struct {
	Unacknowledged bool `query:"unacknowledged"`
	Limit          int  `query:"limit" validate:"min=0,max=500"`
}

type acknowledgeRequest struct {
	IDs []string `json:"ids" validate:"required,max=1000,dive,uuid"`
}

func NewNotificationHandler(list app.ListNotifications, acknowledge app.AcknowledgeNotifications) *NotificationHandler {
	return &NotificationHandler{list: list, acknowledge: acknowledge}
}

func (h *NotificationHandler) List(c echo.Context) error {
	var q listNotificationsQuery
	if ok, err := bindAndValidate(c, &q); !ok {
		return err
	}

	out, err := h.list.Execute(c.Request().Context(), app.ListNotificationsInput{
		User:               userFrom(c),
		UnacknowledgedOnly: q.Unacknowledged,
		Limit:              q.Limit,
	})
	if err != nil {
		return notificationError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *NotificationHandler) Acknowledge(c echo.Context) error {
	var req acknowledgeRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.acknowledge.Execute(c.Request().Context(), app.AcknowledgeNotificationsInput{
		User: userFrom(c),
		IDs:  req.IDs,
	})
	if err != nil {
		return notificationError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func notificationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidUser):
		return respondError(c, http.StatusUnauthorized, "unauthenticated", "user is required")
	case errors.Is(err, app.ErrInvalidLimit), errors.Is(err, app.ErrInvalidIDs):
		return badRequest(c, err.Error())
	default:
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to process notifications")
	}
}
