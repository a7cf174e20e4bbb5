// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"errors"
	"strings"

	apperrors "vending/internal/errors"
	"vending/internal/logging"
	"vending/internal/models"
	"vending/internal/services/user"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer access tokens and resolves the caller.
type AuthMiddleware struct {
	users  user.Service
	secret string
	logger logging.Logger
}

func NewAuthMiddleware(users user.Service, accessSecret string, logger logging.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		users:  users,
		secret: accessSecret,
		logger: logger,
	}
}

// Handler validates the access token and stores the caller identity in the
// request locals. Tokens of deleted users are rejected.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.DomainError(c, apperrors.ErrUnauthorized.WithMessage("missing authorization header"))
	}
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return utils.DomainError(c, apperrors.ErrUnauthorized.WithMessage("invalid authorization format"))
	}

	_, claims, err := utils.ParseToken(tokenString, m.secret)
	if err != nil {
		return utils.DomainError(c, apperrors.ErrInvalidToken)
	}
	identity, err := claims.Identity()
	if err != nil {
		return utils.DomainError(c, apperrors.ErrInvalidToken)
	}

	u, err := m.users.GetByID(c.UserContext(), identity.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return utils.DomainError(c, apperrors.ErrInvalidToken)
		}
		if de, ok := apperrors.As(err); ok {
			return utils.DomainError(c, de)
		}
		m.logger.Error(c.UserContext(), "auth user lookup failed", "user_id", identity.UserID, "error", err)
		return utils.InternalError(c, "internal server error")
	}

	c.Locals(utils.LocalsIdentity, u.Identity())
	return c.Next()
}

// RequireRole rejects callers whose identity does not carry role.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := utils.GetIdentity(c)
		if err != nil {
			return utils.DomainError(c, apperrors.ErrUnauthorized)
		}
		if !models.HasRole(identity, role) {
			return utils.DomainError(c, apperrors.ErrForbidden)
		}
		return c.Next()
	}
}
