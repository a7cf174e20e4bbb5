package memory

import (
	"context"
	"fmt"
	"time"

	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

const productsTable = "products"

type productRepo struct {
	v *view
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now

	cp := *product
	return r.v.putProduct(product.ID, &cp)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	p, ok := r.v.product(id)
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	unlock, err := r.v.lock(ctx, rowKey{productsTable, id})
	if err != nil {
		return nil, err
	}
	defer unlock()
	return r.GetByID(ctx, id)
}

func (r *productRepo) List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	snap := r.v.snapshotProducts()
	total := int64(len(snap))

	if offset < 0 {
		offset = 0
	}
	if offset > len(snap) {
		offset = len(snap)
	}
	end := len(snap)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*models.Product, 0, end-offset)
	for i := offset; i < end; i++ {
		out = append(out, &snap[i])
	}
	return out, total, nil
}

func (r *productRepo) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range r.v.snapshotProducts() {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

func (r *productRepo) update(ctx context.Context, id uuid.UUID, apply func(*models.Product)) error {
	unlock, err := r.v.lock(ctx, rowKey{productsTable, id})
	if err != nil {
		return err
	}
	defer unlock()

	p, ok := r.v.product(id)
	if !ok {
		return repositories.ErrProductNotFound
	}
	apply(&p)
	p.UpdatedAt = time.Now()
	return r.v.putProduct(id, &p)
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	return r.update(ctx, product.ID, func(p *models.Product) {
		p.ProductName = product.ProductName
		p.Cost = product.Cost
		p.AmountAvailable = product.AmountAvailable
	})
}

func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, amountAvailable int64) error {
	if amountAvailable < 0 {
		return fmt.Errorf("amount available %d violates non-negative constraint", amountAvailable)
	}
	return r.update(ctx, id, func(p *models.Product) { p.AmountAvailable = amountAvailable })
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := r.v.lock(ctx, rowKey{productsTable, id})
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.v.product(id); !ok {
		return repositories.ErrProductNotFound
	}
	return r.v.putProduct(id, nil)
}
