package echo

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/math-server/internal/application/personnel"
	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
)

// RetryAfterSeconds is sent with a busy import response.
const RetryAfterSeconds = 30

type importCoordinator interface {
	RequestImport(ctx context.Context, user string) (app.RequestImportOutput, error)
	Status(ctx context.Context) (*domain.ImportStatus, error)
}

type ImportHandler struct {
	coordinator importCoordinator
}

type importStatusResponse struct {
	ID          string    `json:"id"`
	RequestedBy string    `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
	IsPending   bool      `json:"is_pending"`
}

func NewImportHandler(coordinator importCoordinator) *ImportHandler {
	return &ImportHandler{coordinator: coordinator}
}

func (h *ImportHandler) RequestImport(c echo.Context) error {
	out, err := h.coordinator.RequestImport(c.Request().Context(), userFrom(c))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to start import")
	}

	if !out.Accepted {
		c.Response().Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
		return c.JSON(http.StatusConflict, apiResponse{
			Data: out,
			Error: &errorBody{
				Code:    "import_in_progress",
				Message: "import requested by " + out.PendingUser + " is still running",
			},
		})
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) Status(c echo.Context) error {
	status, err := h.coordinator.Status(c.Request().Context())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to get import status")
	}
	if status == nil {
		return respondError(c, http.StatusNotFound, "not_found", "no import has been requested yet")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: importStatusResponse{
		ID:          status.ID,
		RequestedBy: status.RequestedBy,
		CreatedAt:   status.CreatedAt,
		IsPending:   status.IsPending,
	}})
}
