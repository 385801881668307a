package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eduspark-api/internal/observability"
)

// Observability attaches Prometheus metrics and structured latency/error
// logging, labelled by route family so the AI and admin surfaces can be
// watched separately.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		family := routeFamily(c.Path())
		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := fmt.Sprintf("%d", status)

		observability.HTTPRequests().WithLabelValues(family, method, route, statusLabel).Inc()
		observability.HTTPLatency().WithLabelValues(family, method, route).Observe(duration.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.HTTPErrors().WithLabelValues(family, method, route, statusLabel).Inc()
		}

		// Only the AI and admin families get per-request log lines; catalog
		// traffic is too chatty for that.
		if family == "ai" || family == "admin" {
			latencyMs := float64(duration) / float64(time.Millisecond)
			requestLogger := logger.With().
				Str("correlation_id", GetCorrelationID(c)).
				Str("family", family).
				Str("route", route).
				Str("method", method).
				Int("status", status).
				Float64("latency_ms", latencyMs).
				Logger()

			switch {
			case status >= fiber.StatusInternalServerError:
				requestLogger.Error().Msg("request failed")
			case status >= fiber.StatusBadRequest:
				requestLogger.Warn().Msg("request completed with client error")
			default:
				requestLogger.Info().Msg("request completed")
			}
		}

		return err
	}
}

func routeFamily(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/ai"):
		return "ai"
	case strings.HasPrefix(path, "/api/admin"):
		return "admin"
	default:
		return "api"
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}
