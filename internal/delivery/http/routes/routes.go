package routes

import (
	"interest-match/internal/delivery/http/handler"
	"interest-match/internal/delivery/http/middleware"
	v1 "interest-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Handlers
	auth   *middleware.AuthMiddleware
}

func NewRegistry(health *handler.HealthHandler, handlers v1.Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{health: health, v1: handlers, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1, r.auth)
}
