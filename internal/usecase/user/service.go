package user

import (
	"context"
	"errors"

	"interest-match/internal/domain/user"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInternal = errors.New("internal error")
)

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

// GetMe returns the caller's account without its password hash.
func (s *Service) GetMe(ctx context.Context, userID int64) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	usr.PasswordHash = ""
	return usr, nil
}
