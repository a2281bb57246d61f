package app

import (
	"fmt"
	"strings"

	"interest-match/internal/config"
	"interest-match/internal/delivery/http/handler"
	"interest-match/internal/delivery/http/middleware"
	"interest-match/internal/delivery/http/routes"
	v1 "interest-match/internal/delivery/http/routes/v1"
	"interest-match/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app on top of an existing container. Tests pass a
// container holding fakes and a nil DB.
func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	log := logger.Nop()
	if c != nil && c.Log != nil {
		log = c.Log
	}

	registerGlobalMiddleware(f, log)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(cfg, c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.Metrics())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	handlers := v1.Handlers{
		Auth:               handler.NewAuthHandler(c.Auth),
		Catalog:            handler.NewCatalogHandler(c.Catalog),
		Profile:            handler.NewProfileHandler(c.Profiles),
		Matching:           handler.NewMatchingHandler(c.CommonInterests),
		User:               handler.NewUserHandler(c.Account),
		UserInterest:       handler.NewUserInterestHandler(c.UserInterests),
		CategoryImportance: handler.NewCategoryImportanceHandler(c.CategoryImportances),
	}

	routes.NewRegistry(handler.NewHealthHandler(c.DB), handlers, middleware.NewAuthMiddleware(c.JWT)).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
