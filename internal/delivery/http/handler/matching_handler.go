package handler

import (
	"strconv"

	"interest-match/internal/delivery/http/dto"
	"interest-match/internal/delivery/http/middleware"
	"interest-match/internal/pkg/response"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchingHandler struct {
	uc usecase.CommonInterestsUsecase
}

func NewMatchingHandler(uc usecase.CommonInterestsUsecase) *MatchingHandler {
	return &MatchingHandler{uc: uc}
}

// RegisterRoutes mounts the feed behind optionalAuth: anonymous callers get
// an empty page and bad tokens are rejected.
func (h *MatchingHandler) RegisterRoutes(r fiber.Router, optionalAuth fiber.Handler) {
	if r == nil {
		return
	}
	if optionalAuth == nil {
		r.Get("/matching-profiles", h.List)
		return
	}

	r.Get("/matching-profiles", optionalAuth, h.List)
}

func (h *MatchingHandler) List(c fiber.Ctx) error {
	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			verr := &usecase.ValidationError{}
			verr.Add("page", "must be a positive integer")
			return mapUsecaseError(verr)
		}
		page = p
	}

	res, err := h.uc.Rank(c.Context(), middleware.IdentityFrom(c), page)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.MatchingPageResponse{
		Count:    res.Count,
		Page:     res.Page,
		PageSize: res.PageSize,
		Results:  make([]dto.MatchingProfileResponse, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		out.Results = append(out.Results, dto.MatchingProfileResponse{
			PublicProfileResponse: dto.NewPublicProfileResponse(r.Public),
			SharedInterestCount:   r.SharedCount,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
