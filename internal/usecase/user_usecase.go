package usecase

import (
	"context"
	"errors"

	"interest-match/internal/domain/user"
	ucuser "interest-match/internal/usecase/user"
)

// AccountUsecase exposes the caller's own account. The email it returns is
// private and never part of a public projection.
type AccountUsecase interface {
	Me(ctx context.Context, id user.Identity) (user.User, error)
}

type Account struct {
	svc *ucuser.Service
}

func NewAccountUsecase(users user.Repository) *Account {
	return &Account{svc: ucuser.NewService(users)}
}

func (u *Account) Me(ctx context.Context, id user.Identity) (user.User, error) {
	if id.IsAnonymous() {
		return user.User{}, ErrUnauthenticated
	}
	usr, err := u.svc.GetMe(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, ucuser.ErrNotFound) {
			return user.User{}, notFound("user", id.UserID)
		}
		return user.User{}, internal("get account", err)
	}
	return usr, nil
}
