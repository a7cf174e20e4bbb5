package handlers

import (
	"vending/internal/logging"
	"vending/internal/models"
	"vending/internal/services/product"
	"vending/internal/utils"
	"vending/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService product.Service
	logger         logging.Logger
}

func NewProductHandler(productService product.Service, logger logging.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// List serves one page of products; ?page=N selects the page.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := utils.GetPagination(c, product.PageSize)
	products, total, err := h.productService.List(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(products, p))
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	p, err := h.productService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input models.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return respondError(c, h.logger, err)
	}

	p, err := h.productService.Create(c.UserContext(), identity, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Created(c, p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var input models.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	p, err := h.productService.Update(c.UserContext(), identity, id, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.productService.Delete(c.UserContext(), identity, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.Success(c, fiber.Map{"message": "Product deleted"})
}
