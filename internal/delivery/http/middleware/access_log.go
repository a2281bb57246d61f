package middleware

import (
	"time"

	"interest-match/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestIDKey = "request_id"
)

type AccessLogMiddleware struct {
	log *logger.Logger
}

func NewAccessLogMiddleware(log *logger.Logger) *AccessLogMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AccessLogMiddleware{log: log}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(ctxRequestIDKey, rid)

		err := c.Next()

		m.log.Info("http access",
			"request_id", rid,
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
			"resp_bytes", len(c.Response().Body()),
			"ua", c.Get("User-Agent"),
		)
		return err
	}
}

func RequestID(c fiber.Ctx) string {
	rid, _ := c.Locals(ctxRequestIDKey).(string)
	return rid
}
