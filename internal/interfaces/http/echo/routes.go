package echo

import e "github.com/labstack/echo/v4"

// Handlers groups the route handlers; a nil handler leaves its routes out.
type Handlers struct {
	Import       *ImportHandler
	Calculation  *CalculationHandler
	Notification *NotificationHandler
	Employee     *EmployeeHandler
}

func RegisterRoutes(server *e.Echo, h Handlers) {
	if server.Validator == nil {
		server.Validator = NewRequestValidator()
	}

	api := server.Group("/api/v1", RequireUser())

	if h.Import != nil {
		api.POST("/imports", h.Import.RequestImport)
		api.GET("/imports/status", h.Import.Status)
	}
	if h.Calculation != nil {
		api.GET("/math-models", h.Calculation.ListModels)
		api.GET("/math-models/:kind", h.Calculation.GetJob)
		api.POST("/math-models/:kind/calculate", h.Calculation.Calculate)
		api.POST("/math-models/:kind/submit", h.Calculation.Submit)
	}
	if h.Notification != nil {
		api.GET("/notifications", h.Notification.List)
		api.POST("/notifications/acknowledge", h.Notification.Acknowledge)
	}
	if h.Employee != nil {
		api.GET("/personnel/employees/:external_id", h.Employee.GetEmployee)
	}
}
