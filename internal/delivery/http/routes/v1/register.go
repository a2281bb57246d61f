package v1

import (
	"interest-match/internal/delivery/http/handler"
	"interest-match/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth               *handler.AuthHandler
	Catalog            *handler.CatalogHandler
	Profile            *handler.ProfileHandler
	Matching           *handler.MatchingHandler
	User               *handler.UserHandler
	UserInterest       *handler.UserInterestHandler
	CategoryImportance *handler.CategoryImportanceHandler
}

// Register mounts public routes before the protected group. The group's
// middleware applies to everything registered after it under r.
func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(r)
	}
	if h.Profile != nil {
		h.Profile.RegisterPublicRoutes(r)
	}
	if h.Matching != nil {
		h.Matching.RegisterRoutes(r, authMw.Optional())
	}

	protected := r.Group("", authMw.Middleware())

	if h.User != nil {
		h.User.RegisterRoutes(protected.Group("/users"))
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(protected)
	}
	if h.UserInterest != nil {
		h.UserInterest.RegisterRoutes(protected)
	}
	if h.CategoryImportance != nil {
		h.CategoryImportance.RegisterRoutes(protected)
	}
}
