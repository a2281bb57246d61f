package usecase

import (
	"context"
	"errors"

	"interest-match/internal/domain/user"
	"interest-match/internal/pkg/jwt"
	ucauth "interest-match/internal/usecase/auth"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, TokenPair, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	tokens, err := u.issue(usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, tokens, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	tokens, err := u.issue(usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, tokens, nil
}

// Refresh rotates both tokens. The user is re-read so that a deleted account
// cannot keep refreshing.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrUnauthenticated
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, internal("get user", err)
	}
	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.PublicID)
	if err != nil {
		return TokenPair{}, internal("generate access token", err)
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID, usr.PublicID)
	if err != nil {
		return TokenPair{}, internal("generate refresh token", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
