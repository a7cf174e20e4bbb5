package handlers

import (
	apperrors "vending/internal/errors"
	"vending/internal/logging"
	"vending/internal/services/vending"
	"vending/internal/utils"
	"vending/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VendingHandler struct {
	vendingService vending.Service
	logger         logging.Logger
}

func NewVendingHandler(vendingService vending.Service, logger logging.Logger) *VendingHandler {
	return &VendingHandler{
		vendingService: vendingService,
		logger:         logger,
	}
}

type depositRequest struct {
	Amount int64 `json:"amount" validate:"required,denomination"`
}

type buyRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int64     `json:"quantity"`
}

func (h *VendingHandler) Deposit(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input depositRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, apperrors.ErrInvalidAmount.Wrap(err))
	}

	result, err := h.vendingService.Deposit(c.UserContext(), identity, input.Amount)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, result)
}

func (h *VendingHandler) Reset(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	result, err := h.vendingService.Reset(c.UserContext(), identity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, result)
}

// Buy leaves quantity validation to the service so that a zero quantity is
// reported as INVALID_QUANTITY.
func (h *VendingHandler) Buy(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input buyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.vendingService.Purchase(c.UserContext(), identity, input.ProductID, input.Quantity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, result)
}
