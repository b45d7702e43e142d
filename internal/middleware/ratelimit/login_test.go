package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(limit int) *echo.Echo {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, Login(limit, 15*time.Minute))
	return e
}

func attempt(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":51234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLogin_BlocksAfterLimit(t *testing.T) {
	t.Parallel()

	e := newLimitedEcho(3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusNoContent, attempt(e, "10.0.0.1").Code, "attempt %d", i+1)
	}

	rec := attempt(e, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TooManyAttempts, body["message"])
}

func TestLogin_CountsPerIP(t *testing.T) {
	t.Parallel()

	e := newLimitedEcho(1)

	require.Equal(t, http.StatusNoContent, attempt(e, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, attempt(e, "10.0.0.1").Code)
	require.Equal(t, http.StatusNoContent, attempt(e, "10.0.0.2").Code)
}
