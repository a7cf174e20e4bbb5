package product

import (
	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/validation"
)

// validate checks the stored form of a product after create or merge.
func validate(p *models.Product) error {
	v := validation.New()
	v.Check(p.ProductName != "", "productName", "must not be empty")
	v.Check(len(p.ProductName) <= 255, "productName", "must be at most 255 characters")
	v.Check(p.Cost > 0, "cost", "must be positive")
	v.Check(p.AmountAvailable >= 0, "amountAvailable", "must not be negative")
	if !v.Valid() {
		return apperrors.ErrInvalidInput.WithMessage(v.Error())
	}
	return nil
}
