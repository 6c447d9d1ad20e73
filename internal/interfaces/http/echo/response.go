package echo

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func respondError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, apiResponse{Error: &errorBody{
		Code:    code,
		Message: message,
	}})
}

func badRequest(c echo.Context, message string) error {
	return respondError(c, http.StatusBadRequest, "bad_request", message)
}

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// bindAndValidate decodes the request into req and runs its validate tags.
// On failure it writes the 400 response and returns ok=false.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return false, badRequest(c, validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return errs[0].Field() + " failed on " + errs[0].Tag()
	}
	return "invalid request"
}
