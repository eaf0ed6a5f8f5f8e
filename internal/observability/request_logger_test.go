package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return apperrors.NewInternalError(nil)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/items/42", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer secret-token")
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil), -1)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.EqualValues(t, 200, entries[0].ContextMap()["status"])
	assert.Equal(t, "/items/42", entries[0].ContextMap()["path"])
	assert.NotContains(t, entries[0].ContextMap(), "authorization")
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, 500, entries[1].ContextMap()["status"])

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/items/:id",status="200"} 1`)
	assert.Contains(t, string(body), "http_request_duration_seconds_bucket")
}

func TestRequestLogger_UnmatchedRoutesShareOneSeries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Post("/items", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	paths := []string{"/unknown-aaaa", "/zzzzzzzzzzzzzzzzzz", "/x1", "/x2", "/x3"}
	for _, path := range paths {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/items", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, len(paths)+1)
	for i, path := range paths {
		assert.Equal(t, path, entries[i].ContextMap()["path"])
		assert.Equal(t, "GET", entries[i].ContextMap()["method"])
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 5`)
	assert.Contains(t, body, `http_requests_total{method="POST",path="/items",status="201"} 1`)
	assert.NotContains(t, body, `path="/x3"`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "INTERNAL_ERROR")
		m.RecordAuthAttempt("login", "success")
		m.trackInFlight()()
	})
}
