package repositories

import (
	"context"
	"time"

	"vending/internal/models"

	"github.com/google/uuid"
)

// CacheRepository is the read-through cache used for product and user
// lookups. A miss is reported as found == false with a nil error.
type CacheRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool, error)
	SetProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, bool, error)
	SetUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	HealthCheck(ctx context.Context) error
}

// Default cache expiration time
const DefaultExpiration = 10 * time.Minute
