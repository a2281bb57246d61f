package middleware

import (
	"strconv"
	"time"

	"interest-match/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

// Metrics records request duration labelled by the matched route pattern,
// not the raw path, to keep label cardinality bounded.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).
			Observe(time.Since(start).Seconds())
		return err
	}
}
