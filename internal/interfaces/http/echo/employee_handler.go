package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/math-server/internal/application/personnel"
)

type EmployeeHandler struct {
	useCase app.GetEmployee
}

func NewEmployeeHandler(useCase app.GetEmployee) *EmployeeHandler {
	return &EmployeeHandler{useCase: useCase}
}

func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context(), app.GetEmployeeInput{
		ExternalID: c.Param("external_id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidExternalID) {
			return respondError(c, http.StatusBadRequest, "invalid_external_id", "external_id must be 1 to 64 characters")
		}
		if errors.Is(err, app.ErrEmployeeNotFound) {
			return respondError(c, http.StatusNotFound, "not_found", "employee not found")
		}

		return respondError(c, http.StatusInternalServerError, "internal_error", "failed to get employee")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
