package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/taskgate/internal/metrics"
	"github.com/Skotchmaster/taskgate/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/taskgate/pkg/middleware/logging"
)

// Common is the global middleware chain in order. Metrics sits outside the
// request logger so it observes the rendered status.
func Common(l *slog.Logger, m *metrics.Metrics) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.Recover(),
		middleware.RequestID(),
		m.Middleware(),
		loggingmw.RequestLoggerWithConfig(loggingmw.Config{
			Logger:  l,
			UserKey: auth.CtxUsername,
			Skipper: func(c echo.Context) bool { return c.Path() == "/health/live" },
		}),
		middleware.Secure(),
	}
}
