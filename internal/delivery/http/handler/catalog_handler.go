package handler

import (
	"interest-match/internal/delivery/http/dto"
	"interest-match/internal/pkg/response"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/interest-categories", h.ListCategories)
	r.Get("/interests", h.ListInterests)
}

func (h *CatalogHandler) ListCategories(c fiber.Ctx) error {
	items, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryResponses(items))
}

func (h *CatalogHandler) ListInterests(c fiber.Ctx) error {
	items, err := h.uc.ListInterests(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInterestResponses(items))
}
