package repositories

import (
	"context"

	"vending/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create inserts a new user. A duplicate username yields ErrUsernameTaken.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByIDForUpdate reads a user and locks the row until the enclosing
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)

	List(ctx context.Context) ([]*models.User, error)

	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error

	// UpdateDeposit overwrites the stored balance.
	UpdateDeposit(ctx context.Context, id uuid.UUID, deposit int64) error

	Delete(ctx context.Context, id uuid.UUID) error
}
