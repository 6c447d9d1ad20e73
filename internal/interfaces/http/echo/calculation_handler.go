package echo

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/math-server/internal/application/calculation"
	domain "github.com/mohammadpnp/math-server/internal/domain/calculation"
)

type CalculationHandler struct {
	listModels app.ListModels
	getJob     app.GetJob
	calculate  app.Calculate
	submit     app.Submit
}

type calculationRequest struct {
	Input json.RawMessage `json:"input" validate:"required"`
}

func NewCalculationHandler(listModels app.ListModels, getJob app.GetJob, calculate app.Calculate, submit app.Submit) *CalculationHandler {
	return &CalculationHandler{
		listModels: listModels,
		getJob:     getJob,
		calculate:  calculate,
		submit:     submit,
	}
}

func (h *CalculationHandler) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, apiResponse{Data: h.listModels.Execute()})
}

func (h *CalculationHandler) GetJob(c echo.Context) error {
	out, err := h.getJob.Execute(c.Request().Context(), app.GetJobInput{
		User: userFrom(c),
		Kind: domain.Kind(c.Param("kind")),
	})
	if err != nil {
		return calculationError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CalculationHandler) Calculate(c echo.Context) error {
	var req calculationRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.calculate.Execute(c.Request().Context(), app.CalculateInput{
		User:  userFrom(c),
		Kind:  domain.Kind(c.Param("kind")),
		Input: req.Input,
	})
	if err != nil {
		return calculationError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CalculationHandler) Submit(c echo.Context) error {
	var req calculationRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.submit.Execute(c.Request().Context(), app.SubmitInput{
		User:  userFrom(c),
		Kind:  domain.Kind(c.Param("kind")),
		Input: req.Input,
	})
	if err != nil {
		return calculationError(c, err)
	}
	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func calculationError(c echo.Context, err error) error {
	if calcErr, ok := domain.AsError(err); ok {
		return respondError(c, http.StatusBadRequest, "calculation_error", calcErr.Message)
	}

	switch {
	case errors.Is(err, app.ErrUnknownJobKind):
		return respondError(c, http.StatusNotFound, "unknown_model", "math model not found")
	case errors.Is(err, app.ErrInvalidUser):
		return respondError(c, http.StatusUnauthorized, "unauthenticated", "user is required")
	case errors.Is(err, app.ErrNotSync):
		return respondError(c, http.StatusBadRequest, "async_model", "model runs asynchronously, use submit")
	case errors.Is(err, app.ErrNotAsync):
		return respondError(c, http.StatusBadRequest, "sync_model", "model runs synchronously, use calculate")
	case errors.Is(err, app.ErrJobBusy):
		return respondError(c, http.StatusConflict, "job_busy", "calculation is already running")
	case errors.Is(err, app.ErrQueueUnavailable):
		return respondError(c, http.StatusServiceUnavailable, "queue_unavailable", "calculation queue is unavailable, try again later")
	default:
		return respondError(c, http.StatusInternalServerError, "internal_error", "calculation failed")
	}
}
