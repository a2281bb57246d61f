package handler

import (
	"interest-match/internal/delivery/http/dto"
	"interest-match/internal/delivery/http/middleware"
	"interest-match/internal/pkg/response"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.AccountUsecase
}

func NewUserHandler(uc usecase.AccountUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	usr, err := h.uc.Me(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}
