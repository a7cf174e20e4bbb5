package user

import (
	"context"
	"strings"

	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// UpdateUsername renames the caller's own account.
	UpdateUsername(ctx context.Context, identity models.Identity, id uuid.UUID, username string) (*models.User, error)

	// Delete removes the caller's own account. Sellers must delete their
	// products first.
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

func (s *service) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}
	return users, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, found, err := s.cache.GetUser(ctx, id); err == nil && found {
		return user, nil
	}

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}

	// Best effort; a cache outage must not fail reads.
	_ = s.cache.SetUser(ctx, user)
	return user, nil
}

func (s *service) UpdateUsername(ctx context.Context, identity models.Identity, id uuid.UUID, username string) (*models.User, error) {
	if identity.UserID != id {
		return nil, apperrors.ErrForbidden
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrInvalidInput.WithMessage("username is required")
	}

	var updated *models.User
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := tx.Users().UpdateUsername(ctx, id, username); err != nil {
			return err
		}
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}

	_ = s.cache.DeleteUser(ctx, id)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, identity models.Identity, id uuid.UUID) error {
	if identity.UserID != id {
		return apperrors.ErrForbidden
	}

	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if user.Role == models.RoleSeller {
			n, err := tx.Products().CountBySeller(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return apperrors.ErrSellerHasProducts
			}
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return apperrors.FromStorage(err)
	}

	_ = s.cache.DeleteUser(ctx, id)
	return nil
}
