package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	httpecho "github.com/mohammadpnp/math-server/internal/interfaces/http/echo"
	"github.com/mohammadpnp/math-server/internal/logging"
	"github.com/mohammadpnp/math-server/internal/metrics"
	"github.com/sirupsen/logrus"
)

func NewHTTPServer(handlers httpecho.Handlers, metricsPath string, log *logrus.Entry) *echo.Echo {
	log = logging.OrNop(log)

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("10M"))
	server.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	}))

	httpecho.RegisterRoutes(server, handlers)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if metricsPath != "" {
		server.GET(metricsPath, echo.WrapHandler(metrics.Handler()))
	}

	return server
}
