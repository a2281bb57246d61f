package dto

import (
	"time"

	"interest-match/internal/domain/profile"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type PublicInterestResponse struct {
	InterestName string `json:"interest_name"`
	CategoryName string `json:"category_name"`
}

// PublicProfileResponse never carries email, internal ids or the birth date.
type PublicProfileResponse struct {
	PublicID  uuid.UUID                `json:"public_id"`
	Bio       string                   `json:"bio"`
	Age       *int                     `json:"age"`
	Interests []PublicInterestResponse `json:"interests"`
}

type OwnProfileResponse struct {
	PublicID  uuid.UUID `json:"public_id"`
	Bio       string    `json:"bio"`
	BirthDate *string   `json:"birth_date"`
	Age       *int      `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPublicProfileResponse(p profile.Public) PublicProfileResponse {
	interests := make([]PublicInterestResponse, 0, len(p.Interests))
	for _, it := range p.Interests {
		interests = append(interests, PublicInterestResponse{InterestName: it.InterestName, CategoryName: it.CategoryName})
	}
	return PublicProfileResponse{PublicID: p.PublicID, Bio: p.Bio, Age: p.Age, Interests: interests}
}

func NewOwnProfileResponse(publicID uuid.UUID, p profile.Profile, age *int) OwnProfileResponse {
	var birth *string
	if p.BirthDate != nil {
		s := p.BirthDate.Format(DateLayout)
		birth = &s
	}
	return OwnProfileResponse{
		PublicID:  publicID,
		Bio:       p.Bio,
		BirthDate: birth,
		Age:       age,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
