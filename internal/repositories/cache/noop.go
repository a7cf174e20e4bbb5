package cache

import (
	"context"

	"vending/internal/models"

	"github.com/google/uuid"
)

// Noop is used when Redis is disabled. Every lookup misses.
type Noop struct{}

func (Noop) GetProduct(context.Context, uuid.UUID) (*models.Product, bool, error) {
	return nil, false, nil
}
func (Noop) SetProduct(context.Context, *models.Product) error { return nil }
func (Noop) DeleteProduct(context.Context, uuid.UUID) error     { return nil }

func (Noop) GetUser(context.Context, uuid.UUID) (*models.User, bool, error) {
	return nil, false, nil
}
func (Noop) SetUser(context.Context, *models.User) error { return nil }
func (Noop) DeleteUser(context.Context, uuid.UUID) error  { return nil }

func (Noop) HealthCheck(context.Context) error { return nil }
