package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deppfellow/sportspredict/internal/config"
	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/logger"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	nop := zerolog.Nop()
	return &server.Server{
		Config:        config.DefaultConfig(),
		Logger:        &nop,
		LoggerService: &logger.LoggerService{},
	}
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestNewRequestIsFresh(t *testing.T) {
	prototype := &model.IDRequest{ID: 5}

	req := newRequest(prototype)
	require.NotSame(t, prototype, req)
	assert.Zero(t, req.ID)
}

func TestHandle_StatusFromResult(t *testing.T) {
	h := NewHandler(newTestServer())

	for _, created := range []bool{true, false} {
		endpoint := Handle(h, func(c echo.Context, req *model.ArchiveRequest) (service.CreateResult[model.Event], error) {
			return service.CreateResult[model.Event]{Created: created}, nil
		}, http.StatusCreated, &model.ArchiveRequest{})

		c, rec := newContext(http.MethodPost, "/api/events", "")
		require.NoError(t, endpoint(c))

		if created {
			assert.Equal(t, http.StatusCreated, rec.Code)
		} else {
			assert.Equal(t, http.StatusOK, rec.Code)
		}
		assert.NotContains(t, rec.Body.String(), "Created")
	}
}

func TestHandle_FieldsDoNotLeakBetweenRequests(t *testing.T) {
	h := NewHandler(newTestServer())

	var seen []*string
	endpoint := Handle(h, func(c echo.Context, req *model.UpdateEventRequest) (model.DataResponse[model.Event], error) {
		seen = append(seen, req.League)
		return model.DataResponse[model.Event]{}, nil
	}, http.StatusOK, &model.UpdateEventRequest{})

	c, _ := newContext(http.MethodPatch, "/api/events/1", `{"league":"Serie A"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, endpoint(c))

	c, _ = newContext(http.MethodPatch, "/api/events/1", `{"venue":"San Siro"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, endpoint(c))

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, "Serie A", *seen[0])
	assert.Nil(t, seen[1])
}

func TestHandle_ValidationErrorSkipsHandler(t *testing.T) {
	h := NewHandler(newTestServer())

	called := false
	endpoint := Handle(h, func(c echo.Context, req *model.IDRequest) (model.DataResponse[model.Prediction], error) {
		called = true
		return model.DataResponse[model.Prediction]{}, nil
	}, http.StatusOK, &model.IDRequest{})

	c, _ := newContext(http.MethodGet, "/api/predictions/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := endpoint(c)
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.False(t, called)
}

func TestHandleNoContent(t *testing.T) {
	h := NewHandler(newTestServer())
	endpoint := HandleNoContent(h, func(c echo.Context, req *model.IDRequest) error {
		return nil
	}, http.StatusNoContent, &model.IDRequest{})

	c, rec := newContext(http.MethodDelete, "/api/events/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, endpoint(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func healthHandler(checks ...dependencyCheck) *HealthHandler {
	h := NewHealthHandler(newTestServer())
	h.checks = checks
	return h
}

func pingOK(context.Context) error { return nil }
func pingDown(context.Context) error { return errors.New("connection refused") }

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     []dependencyCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all healthy",
			checks:     []dependencyCheck{{name: "database", required: true, ping: pingOK}, {name: "redis", ping: pingOK}},
			wantCode:   http.StatusOK,
			wantStatus: statusHealthy,
		},
		{
			name:       "database down",
			checks:     []dependencyCheck{{name: "database", required: true, ping: pingDown}, {name: "redis", ping: pingOK}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: statusUnhealthy,
		},
		{
			name:       "redis down only degrades",
			checks:     []dependencyCheck{{name: "database", required: true, ping: pingOK}, {name: "redis", ping: pingDown}},
			wantCode:   http.StatusOK,
			wantStatus: statusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/health", "")
			require.NoError(t, healthHandler(tt.checks...).CheckHealth(c))
			require.Equal(t, tt.wantCode, rec.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Contains(t, body.Services, "database")
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestNewHealthHandler_SkipsMissingDependencies(t *testing.T) {
	assert.Empty(t, NewHealthHandler(newTestServer()).checks)
}

func TestServeOpenAPIUI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte("<html>docs</html>"), 0o600))

	h := NewOpenAPIHandler(newTestServer())
	h.dir = dir

	c, rec := newContext(http.MethodGet, "/docs", "")
	require.NoError(t, h.ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "docs")

	h.dir = filepath.Join(dir, "missing")
	c, _ = newContext(http.MethodGet, "/docs", "")
	assert.Error(t, h.ServeOpenAPIUI(c))
}
