package product

import (
	"context"
	"strings"

	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

// PageSize is the fixed number of products per listing page.
const PageSize = 10

type Service interface {
	List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	Create(ctx context.Context, identity models.Identity, input models.CreateProductInput) (*models.Product, error)

	// Update applies a partial update; only the owning seller may change a product.
	Update(ctx context.Context, identity models.Identity, id uuid.UUID, input models.UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, identity models.Identity, id uuid.UUID) error
}

type service struct {
	store repositories.Store
	cache repositories.CacheRepository
}

func NewService(store repositories.Store, cache repositories.CacheRepository) Service {
	return &service{
		store: store,
		cache: cache,
	}
}

func (s *service) List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error) {
	if limit <= 0 {
		limit = PageSize
	}
	if offset < 0 {
		offset = 0
	}
	products, total, err := s.store.Products().List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.FromStorage(err)
	}
	return products, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, found, err := s.cache.GetProduct(ctx, id); err == nil && found {
		return product, nil
	}

	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}

	_ = s.cache.SetProduct(ctx, product)
	return product, nil
}

func (s *service) Create(ctx context.Context, identity models.Identity, input models.CreateProductInput) (*models.Product, error) {
	if !models.HasRole(identity, models.RoleSeller) {
		return nil, apperrors.ErrForbidden
	}
	product := &models.Product{
		SellerID:        identity.UserID,
		ProductName:     strings.TrimSpace(input.ProductName),
		Cost:            input.Cost,
		AmountAvailable: input.AmountAvailable,
	}
	if err := validate(product); err != nil {
		return nil, err
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, apperrors.FromStorage(err)
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, identity models.Identity, id uuid.UUID, input models.UpdateProductInput) (*models.Product, error) {
	if !models.HasRole(identity, models.RoleSeller) {
		return nil, apperrors.ErrForbidden
	}

	var updated *models.Product
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		product, err := tx.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product.SellerID != identity.UserID {
			return apperrors.ErrNotOwner
		}

		if input.ProductName != nil {
			product.ProductName = strings.TrimSpace(*input.ProductName)
		}
		if input.Cost != nil {
			product.Cost = *input.Cost
		}
		if input.AmountAvailable != nil {
			product.AmountAvailable = *input.AmountAvailable
		}
		if err := validate(product); err != nil {
			return err
		}

		if err := tx.Products().Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}

	_ = s.cache.DeleteProduct(ctx, id)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, identity models.Identity, id uuid.UUID) error {
	if !models.HasRole(identity, models.RoleSeller) {
		return apperrors.ErrForbidden
	}

	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		product, err := tx.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product.SellerID != identity.UserID {
			return apperrors.ErrNotOwner
		}
		return tx.Products().Delete(ctx, id)
	})
	if err != nil {
		return apperrors.FromStorage(err)
	}

	_ = s.cache.DeleteProduct(ctx, id)
	return nil
}
