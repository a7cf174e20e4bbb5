package handlers

import (
	apperrors "vending/internal/errors"
	"vending/internal/logging"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError renders domain errors with their status. Anything else is an
// internal failure: it is logged and the client gets a generic 500.
func respondError(c *fiber.Ctx, logger logging.Logger, err error) error {
	if de, ok := apperrors.As(err); ok {
		return utils.DomainError(c, de)
	}
	logger.Error(c.UserContext(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return utils.InternalError(c, "internal server error")
}

// parseID reads a uuid path parameter.
func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidInput.WithMessage("invalid " + param)
	}
	return id, nil
}
