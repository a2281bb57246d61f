package middleware

import (
	"errors"
	"strings"

	"interest-match/internal/domain/user"
	"interest-match/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxIdentityKey = "identity"

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware rejects requests without a valid access token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if err := m.authenticate(c, token); err != nil {
			return err
		}
		return c.Next()
	}
}

// Optional lets requests without an Authorization header through as
// anonymous. A header carrying a bad token is still rejected.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if strings.TrimSpace(c.Get("Authorization")) == "" {
			c.Locals(CtxIdentityKey, user.Anonymous())
			return c.Next()
		}
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if err := m.authenticate(c, token); err != nil {
			return err
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c fiber.Ctx, token string) error {
	claims, err := m.jwt.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}
	c.Locals(CtxIdentityKey, user.Identity{UserID: claims.UserID, PublicID: claims.PublicID})
	return nil
}

// IdentityFrom returns the caller set by the auth middleware, or an
// anonymous identity when none was set.
func IdentityFrom(c fiber.Ctx) user.Identity {
	id, ok := c.Locals(CtxIdentityKey).(user.Identity)
	if !ok {
		return user.Anonymous()
	}
	return id
}

func BearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
