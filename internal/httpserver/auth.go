package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskgate/internal/metrics"
	"github.com/Skotchmaster/taskgate/internal/service"
	"github.com/Skotchmaster/taskgate/internal/transport"
	"github.com/Skotchmaster/taskgate/pkg/logging"
)

const (
	msgCredentialsRequired = "username and password are required"
	msgInvalidCredentials  = "invalid credentials or unauthorized access"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieName   string
	CookieSecure bool
	Metrics      *metrics.Metrics
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		h.Metrics.ObserveLogin("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, msgCredentialsRequired)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "validation", "error", err)
		h.Metrics.ObserveLogin("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, msgCredentialsRequired)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.Metrics.ObserveLogin("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, msgCredentialsRequired)
	case errors.Is(err, service.ErrInvalidCredentials):
		h.Metrics.ObserveLogin("invalid_credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
	case err != nil:
		h.Metrics.ObserveLogin("error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(CreateCookie(h.CookieName, res.Token, "/", res.ExpiresAt, h.CookieSecure))
	h.Metrics.ObserveLogin("success")

	return c.JSON(http.StatusOK, transport.LoginResponse{Token: res.Token})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(DeleteCookie(h.CookieName, "/", h.CookieSecure))
	l.Info("successful_logout")

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}
