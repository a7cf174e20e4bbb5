package repositories

import (
	"context"

	"vending/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// GetByIDForUpdate reads a product and locks the row until the enclosing
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// List returns one page ordered by creation time, plus the total count.
	List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)

	// Update persists name, cost and stock of an existing product.
	Update(ctx context.Context, product *models.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, amountAvailable int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}
