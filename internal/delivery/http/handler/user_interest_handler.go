package handler

import (
	"interest-match/internal/delivery/http/dto"
	"interest-match/internal/pkg/response"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserInterestHandler struct {
	uc usecase.UserInterestUsecase
}

type addUserInterestRequest struct {
	InterestID int64 `json:"interest_id" validate:"required,gt=0"`
}

type removeUserInterestsRequest struct {
	InterestIDs []int64 `json:"interest_ids" validate:"required,min=1"`
}

// An empty list is a valid bulk replace and clears the set.
type bulkReplaceRequest struct {
	InterestIDs []int64 `json:"interest_ids" validate:"required"`
}

func NewUserInterestHandler(uc usecase.UserInterestUsecase) *UserInterestHandler {
	return &UserInterestHandler{uc: uc}
}

func (h *UserInterestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/user-interests")
	grp.Get("/", h.List)
	grp.Post("/", h.Add)
	grp.Delete("/", h.Remove)
	grp.Put("/bulk", h.BulkReplace)
}

func (h *UserInterestHandler) List(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserInterestResponses(items))
}

// Add answers 201 when the edge was created and 200 when it already existed.
func (h *UserInterestHandler) Add(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req addUserInterestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, created, err := h.uc.Add(c.Context(), userID, req.InterestID)
	if err != nil {
		return mapUsecaseError(err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, "", dto.NewUserInterestResponse(item))
}

func (h *UserInterestHandler) Remove(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req removeUserInterestsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	n, err := h.uc.Remove(c.Context(), userID, req.InterestIDs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RemovedInterestsResponse{Removed: n})
}

func (h *UserInterestHandler) BulkReplace(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req bulkReplaceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items, err := h.uc.BulkReplace(c.Context(), userID, req.InterestIDs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserInterestResponses(items))
}
