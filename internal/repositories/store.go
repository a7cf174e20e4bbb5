package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store is the unit-of-work boundary over users and products.
type Store interface {
	Users() UserRepository
	Products() ProductRepository

	// ExecuteInTransaction runs fn with repositories bound to a single
	// transaction. The transaction commits when fn returns nil and rolls back
	// on error, panic or context cancellation.
	ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Ping checks that the backing storage is reachable.
	Ping(ctx context.Context) error
}

type store struct {
	db       *gorm.DB
	users    UserRepository
	products ProductRepository
}

// NewStore builds a PostgreSQL-backed store on top of db.
func NewStore(db *gorm.DB) Store {
	return &store{
		db:       db,
		users:    NewUserRepository(db),
		products: NewProductRepository(db),
	}
}

func (s *store) Users() UserRepository       { return s.users }
func (s *store) Products() ProductRepository { return s.products }

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return classify(err)
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return classify(sqlDB.PingContext(ctx))
}
