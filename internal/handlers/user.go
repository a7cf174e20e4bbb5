package handlers

import (
	"vending/internal/logging"
	"vending/internal/services/user"
	"vending/internal/utils"
	"vending/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
	logger      logging.Logger
}

func NewUserHandler(userService user.Service, logger logging.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	u, err := h.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var input updateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, err)
	}

	u, err := h.userService.UpdateUsername(c.UserContext(), identity, id, input.Username)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.userService.Delete(c.UserContext(), identity, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "User deleted"})
}
