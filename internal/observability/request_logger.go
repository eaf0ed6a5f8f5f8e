package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// RequestLogger logs one line per request and feeds request metrics. Bodies, cookies and
// headers are never logged.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		done := metrics.trackInFlight()
		defer done()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.ToDomainError(err).HTTPStatus
		}
		latency := time.Since(start)

		path, method := RouteLabels(c)
		metrics.RecordRequest(path, method, status, latency)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}

// UnmatchedRoute is the path label for requests no route handled.
const UnmatchedRoute = "unmatched"

// RouteLabels returns the route pattern and method for metric labels. Both are copied since
// fiber hands out views of the reused request buffer, and prometheus keeps label values.
func RouteLabels(c *fiber.Ctx) (path, method string) {
	method = utils.CopyString(c.Method())
	route := c.Route()
	// an unmatched request is left on the "/" middleware route
	if route == nil || route.Path == "" || (route.Path == "/" && c.Path() != "/") {
		return UnmatchedRoute, method
	}
	return utils.CopyString(route.Path), method
}
