package handlers

import (
	"vending/internal/logging"
	"vending/internal/models"
	"vending/internal/services/auth"
	"vending/internal/utils"
	"vending/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	logger      logging.Logger
}

func NewAuthHandler(authService auth.Service, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, err)
	}

	tokens, err := h.authService.Signup(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, tokens)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input loginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, err)
	}

	tokens, err := h.authService.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, tokens)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input refreshRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, err)
	}

	tokens, err := h.authService.Refresh(c.UserContext(), input.Token)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, tokens)
}
