package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskgate/internal/tokens"
	"github.com/Skotchmaster/taskgate/pkg/logging"
)

const (
	CtxUsername = "username"

	SourceCookie = "cookie"
	SourceHeader = "header"
)

type TokenValidator interface {
	Validate(raw string) (*tokens.Identity, error)
}

type identityKey struct{}

// Guard admits requests carrying a valid session token. The cookie is
// consulted first; when it is present the Authorization header is ignored,
// even if the cookie token turns out to be invalid.
type Guard struct {
	Tokens     TokenValidator
	CookieName string
}

func NewGuard(v TokenValidator, cookieName string) *Guard {
	return &Guard{Tokens: v, CookieName: cookieName}
}

func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "require_auth")

		raw, source := TokenFromRequest(c, g.CookieName)
		if raw == "" {
			l.Warn("access_denied", "status", 401, "reason", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		id, err := g.Tokens.Validate(raw)
		if err != nil {
			l.Warn("access_denied", "status", 403, "source", source, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		c.Set(CtxUsername, id.Username)
		ctx = IntoContext(ctx, id)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("username", id.Username))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// TokenFromRequest returns the raw token and where it came from. An empty
// token means the request carried neither credential.
func TokenFromRequest(c echo.Context, cookieName string) (string, string) {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value, SourceCookie
	}

	scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ""
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ""
	}
	return token, SourceHeader
}

func IntoContext(ctx context.Context, id *tokens.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*tokens.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*tokens.Identity)
	return id, ok && id != nil
}
