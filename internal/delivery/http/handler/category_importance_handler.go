package handler

import (
	"interest-match/internal/delivery/http/dto"
	"interest-match/internal/pkg/response"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CategoryImportanceHandler struct {
	uc usecase.CategoryImportanceUsecase
}

// Fields are pointers so that a missing value is told apart from zero; the
// range itself is checked by the usecase.
type upsertImportanceRequest struct {
	CategoryID *int64 `json:"category_id" validate:"required"`
	Importance *int   `json:"importance" validate:"required"`
}

type batchImportanceItem struct {
	ID         *int64 `json:"id"`
	CategoryID *int64 `json:"category_id" validate:"required"`
	Importance *int   `json:"importance" validate:"required"`
}

type batchImportanceRequest struct {
	Items []batchImportanceItem `json:"items" validate:"required,min=1,dive"`
}

func NewCategoryImportanceHandler(uc usecase.CategoryImportanceUsecase) *CategoryImportanceHandler {
	return &CategoryImportanceHandler{uc: uc}
}

func (h *CategoryImportanceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/user-interest-category-importances")
	grp.Get("/", h.List)
	grp.Post("/", h.Upsert)
	grp.Put("/batch", h.Batch)
}

func (h *CategoryImportanceHandler) List(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryImportanceResponses(items))
}

func (h *CategoryImportanceHandler) Upsert(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req upsertImportanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, created, err := h.uc.Upsert(c.Context(), userID, *req.CategoryID, *req.Importance)
	if err != nil {
		return mapUsecaseError(err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, "", dto.NewCategoryImportanceResponse(item))
}

func (h *CategoryImportanceHandler) Batch(c fiber.Ctx) error {
	userID, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req batchImportanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entries := make([]usecase.ImportanceEntry, 0, len(req.Items))
	for _, it := range req.Items {
		entries = append(entries, usecase.ImportanceEntry{
			ID:         it.ID,
			CategoryID: *it.CategoryID,
			Importance: *it.Importance,
		})
	}

	res, err := h.uc.BatchUpsert(c.Context(), userID, entries)
	if err != nil {
		return mapUsecaseError(err)
	}

	data := dto.BatchImportanceResponse{
		Created: dto.NewCategoryImportanceResponses(res.Created),
		Updated: dto.NewCategoryImportanceResponses(res.Updated),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
