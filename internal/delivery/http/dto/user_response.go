package dto

import (
	"time"

	"interest-match/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	PublicID  uuid.UUID `json:"public_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{PublicID: u.PublicID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	User UserResponse `json:"user"`
	TokenResponse
}
