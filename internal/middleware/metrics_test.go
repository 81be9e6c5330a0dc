package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusconnect/internal/metrics"
	"campusconnect/internal/middleware"
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsApp(m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(middleware.StatusOf(err)).JSON(fiber.Map{"message": err.Error()})
		},
	})
	app.Use(middleware.Metrics(m))
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/verify", func(c *fiber.Ctx) error {
		return services.NewNotAuthenticatedError()
	})
	return app
}

func TestMetrics_LabelsSurviveLaterRequests(t *testing.T) {
	m := metrics.New()
	app := newMetricsApp(m)

	requests := []struct{ method, path string }{
		{http.MethodPost, "/login"},
		{http.MethodGet, "/verify"},
		{http.MethodGet, "/verify"},
	}
	for _, r := range requests {
		resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/login", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/verify", "401")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequests))
}
