package routes

import (
	"interest-match/internal/delivery/http/middleware"
	v1 "interest-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, handlers v1.Handlers, auth *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	v1.Register(r, handlers, auth)
}
