package handler

import (
	"errors"

	"interest-match/internal/delivery/http/middleware"
	"interest-match/internal/pkg/response"
	"interest-match/internal/pkg/validation"
	"interest-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type problemResponse struct {
	Field   string  `json:"field"`
	Message string  `json:"message"`
	IDs     []int64 `json:"ids,omitempty"`
}

type validationData struct {
	Errors []problemResponse `json:"errors"`
}

type notFoundData struct {
	IDs []int64 `json:"ids,omitempty"`
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		data := validationData{Errors: make([]problemResponse, 0, len(verr.Problems))}
		for _, p := range verr.Problems {
			data.Errors = append(data.Errors, problemResponse{Field: p.Field, Message: p.Message, IDs: p.IDs})
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", data, err)
	}

	var nf *usecase.NotFoundError
	if errors.As(err, &nf) {
		return middleware.NewAppError(fiber.StatusNotFound, capitalize(nf.Resource)+" not found", notFoundData{IDs: nf.IDs}, err)
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// bindAndValidate decodes the body into req and checks its validate tags.
// Shape errors are reported in the same form as usecase validation errors.
func bindAndValidate(c fiber.Ctx, req any) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if err := validation.Struct(req); err != nil {
		var fields validation.Errors
		if !errors.As(err, &fields) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
		data := validationData{Errors: make([]problemResponse, 0, len(fields))}
		for _, fe := range fields {
			data.Errors = append(data.Errors, problemResponse{Field: fe.Field, Message: fe.Message})
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", data, err)
	}
	return nil
}

func requireIdentity(c fiber.Ctx) (int64, error) {
	id := middleware.IdentityFrom(c)
	if id.IsAnonymous() {
		return 0, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id.UserID, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
