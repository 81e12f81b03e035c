package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/sportspredict/internal/config"
	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/logger"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	nop := zerolog.Nop()
	return &server.Server{
		Config:        config.DefaultConfig(),
		Logger:        &nop,
		LoggerService: &logger.LoggerService{},
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	mw := NewMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext(), mw.Global.RequestLogger())
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	e := newTestEcho(newTestServer(t))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reused from upstream", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("oversized upstream id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newTestEcho(newTestServer(t))
	e.GET("/boom", func(c echo.Context) error {
		return fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused")
	})
	e.GET("/missing-event", func(c echo.Context) error {
		return fmt.Errorf("failed to collect row from table:events: %w", pgx.ErrNoRows)
	})
	e.GET("/invalid", func(c echo.Context) error {
		return errs.NewFieldValidationError(errs.FieldError{Field: "limit", Error: "must be a positive integer"})
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decodeError(t, rec).Message)
	})

	t.Run("internal details hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, rec).Code)
	})

	t.Run("missing row is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing-event", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "EVENT_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("field errors kept", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invalid", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "limit", body.Errors[0].Field)
	})
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.Config.Server.RateLimit = config.RateLimitConfig{Enabled: true, Window: time.Minute, MaxRequests: 2}

	e := newTestEcho(s)
	e.GET("/api/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewRateLimitMiddleware(s).Limit())

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("192.0.2.1").Code)
	assert.Equal(t, http.StatusNoContent, do("192.0.2.1").Code)

	rec := do("192.0.2.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get(echo.HeaderRetryAfter))
	body := decodeError(t, rec)
	require.NotNil(t, body.Action)
	assert.Equal(t, errs.ActionTypeRetry, body.Action.Type)

	// other clients have their own bucket
	assert.Equal(t, http.StatusNoContent, do("192.0.2.2").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t)
	s.Config.Server.RateLimit = config.RateLimitConfig{Enabled: false, Window: time.Minute, MaxRequests: 1}

	e := newTestEcho(s)
	e.GET("/api/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewRateLimitMiddleware(s).Limit())

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, "9", retryAfterSeconds(15*time.Minute, 100))
	assert.Equal(t, "1", retryAfterSeconds(time.Second, 10))
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFromError(http.StatusOK, nil))
	assert.Equal(t, http.StatusTooManyRequests, statusFromError(http.StatusOK, errs.NewTooManyRequestsError("slow down", "")))
	assert.Equal(t, http.StatusMethodNotAllowed, statusFromError(http.StatusOK, echo.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(http.StatusOK, fmt.Errorf("boom")))
}
