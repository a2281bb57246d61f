package handler

import (
	"context"
	"time"

	"interest-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	if h.db == nil {
		return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"database": "unknown"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", map[string]string{"database": "down"})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"database": "up"})
}
