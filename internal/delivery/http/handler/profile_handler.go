package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"interest-match/internal/delivery/http/dto"
	"interest-match/internal/delivery/http/middleware"
	"interest-match/internal/pkg/response"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

// optionalDate distinguishes an absent birth_date from an explicit null.
// A value that is not a YYYY-MM-DD date is kept as Invalid so it can be
// reported alongside the other field problems.
type optionalDate struct {
	Set     bool
	Invalid bool
	Value   *time.Time
}

func (d *optionalDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		d.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		d.Invalid = true
		return nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		d.Invalid = true
		return nil
	}
	d.Value = &t
	return nil
}

type updateProfileRequest struct {
	Bio       *string      `json:"bio"`
	BirthDate optionalDate `json:"birth_date"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// RegisterRoutes mounts the caller's own profile. The public projection is
// mounted separately because it needs no token.
func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetOwn)
	r.Put("/profile", h.UpdateOwn)
}

func (h *ProfileHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/users/:public_id/public-profile", h.GetPublic)
}

func (h *ProfileHandler) GetOwn(c fiber.Ctx) error {
	id := middleware.IdentityFrom(c)
	if id.IsAnonymous() {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.GetOwn(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOwnProfileResponse(p.PublicID, p.Profile, p.Age))
}

func (h *ProfileHandler) UpdateOwn(c fiber.Ctx) error {
	id := middleware.IdentityFrom(c)
	if id.IsAnonymous() {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.BirthDate.Invalid {
		verr := &usecase.ValidationError{}
		verr.Add("birth_date", "must be a date in YYYY-MM-DD format")
		return mapUsecaseError(verr)
	}

	p, err := h.uc.UpdateOwn(c.Context(), id, usecase.ProfileUpdate{
		Bio:          req.Bio,
		BirthDate:    req.BirthDate.Value,
		SetBirthDate: req.BirthDate.Set,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOwnProfileResponse(p.PublicID, p.Profile, p.Age))
}

func (h *ProfileHandler) GetPublic(c fiber.Ctx) error {
	p, err := h.uc.GetPublic(c.Context(), c.Params("public_id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPublicProfileResponse(p))
}
