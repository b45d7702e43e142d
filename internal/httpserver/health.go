package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskgate/pkg/logging"
)

const readyTimeout = 3 * time.Second

type Check func(ctx context.Context) error

// HealthHTTP serves liveness and readiness. Ready fails as soon as one named
// check fails.
type HealthHTTP struct {
	Checks map[string]Check
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
	defer cancel()

	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			logging.FromContext(ctx).Warn("not_ready", "status", 503, "check", name, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, name+" unavailable")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
