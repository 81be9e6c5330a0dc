package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campusconnect/internal/metrics"
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Metrics records request count and latency per matched route.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Errors are rendered by the app's error handler after this returns,
		// so the response status is not final yet.
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusOf(err)
		}

		// Label values outlive the request; c.Method() aliases fasthttp's reused buffer.
		method := utils.CopyString(c.Method())
		route := c.Route().Path
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// StatusOf returns the HTTP status err will be answered with.
func StatusOf(err error) int {
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		return domainErr.Status
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return http.StatusInternalServerError
}
