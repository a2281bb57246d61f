package usecase

import (
	"context"
	"testing"
	"time"

	"interest-match/internal/pkg/jwt"
	ucauth "interest-match/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(s *memStore) (*Auth, *jwt.HMACService) {
	svc := jwt.NewHMACService("a-secret", "r-secret", time.Minute, time.Hour)
	return NewAuthUsecase(memUsers{s}, svc), svc
}

func TestAuth_RegisterIssuesTokens(t *testing.T) {
	s := newMemStore()
	uc, svc := newAuth(s)

	usr, tokens, err := uc.Register(context.Background(), ucauth.RegisterInput{Email: "New@Example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", usr.Email)

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, claims.UserID)
	assert.Equal(t, usr.PublicID, claims.PublicID)

	_, err = svc.ValidateRefreshToken(tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	s := newMemStore()
	uc, _ := newAuth(s)
	ctx := context.Background()

	_, _, err := uc.Register(ctx, ucauth.RegisterInput{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	_, _, err = uc.Register(ctx, ucauth.RegisterInput{Email: "A@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ucauth.ErrEmailAlreadyRegistered)
}

func TestAuth_Refresh(t *testing.T) {
	s := newMemStore()
	uc, svc := newAuth(s)
	ctx := context.Background()

	usr, tokens, err := uc.Register(ctx, ucauth.RegisterInput{Email: "r@example.com", Password: "password1"})
	require.NoError(t, err)

	rotated, err := uc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, claims.UserID)

	_, err = uc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = uc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAccount_Me(t *testing.T) {
	s := newMemStore()
	u := s.addUser("me@example.com")
	uc := NewAccountUsecase(memUsers{s})

	got, err := uc.Me(context.Background(), identityOf(u))
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", got.Email)
	assert.Empty(t, got.PasswordHash)
}
