package repositories

import (
	"context"
	"errors"
	"fmt"

	"vending/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", classify(err))
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *productRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *productRepository) first(q *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := q.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", classify(err))
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error) {
	var (
		products []*models.Product
		total    int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", classify(err))
	}
	if err := db.Order("created_at, id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", classify(err))
	}
	return products, total, nil
}

func (r *productRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count seller products: %w", classify(err))
	}
	return n, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"product_name":     product.ProductName,
			"cost":             product.Cost,
			"amount_available": product.AmountAvailable,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, amountAvailable int64) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("amount_available", amountAvailable)
	if result.Error != nil {
		return fmt.Errorf("failed to update stock: %w", classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
