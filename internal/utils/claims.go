package utils

import (
	"errors"

	"vending/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LocalsIdentity is the fiber.Ctx locals key the auth middleware stores the
// caller identity under.
const LocalsIdentity = "identity"

// GetIdentity extracts the authenticated caller from the Fiber context.
// It returns an error if the identity is missing or of an invalid type.
func GetIdentity(c *fiber.Ctx) (models.Identity, error) {
	v := c.Locals(LocalsIdentity)
	if v == nil {
		return models.Identity{}, errors.New("identity not found in context")
	}

	identity, ok := v.(models.Identity)
	if !ok {
		return models.Identity{}, errors.New("invalid identity type")
	}
	return identity, nil
}
