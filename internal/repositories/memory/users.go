package memory

import (
	"context"
	"fmt"
	"time"

	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

const usersTable = "users"

type userRepo struct {
	v *view
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range r.v.snapshotUsers() {
		if u.Username == user.Username {
			return repositories.ErrUsernameTaken
		}
	}
	now := time.Now()
	user.Deposit = 0
	user.CreatedAt, user.UpdatedAt = now, now

	cp := *user
	return r.v.putUser(user.ID, &cp)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	u, ok := r.v.user(id)
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	unlock, err := r.v.lock(ctx, rowKey{usersTable, id})
	if err != nil {
		return nil, err
	}
	defer unlock()
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	for _, u := range r.v.snapshotUsers() {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	snap := r.v.snapshotUsers()
	out := make([]*models.User, 0, len(snap))
	for i := range snap {
		out = append(out, &snap[i])
	}
	return out, nil
}

func (r *userRepo) update(ctx context.Context, id uuid.UUID, apply func(*models.User)) error {
	unlock, err := r.v.lock(ctx, rowKey{usersTable, id})
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := r.v.user(id)
	if !ok {
		return repositories.ErrUserNotFound
	}
	apply(&u)
	u.UpdatedAt = time.Now()
	return r.v.putUser(id, &u)
}

func (r *userRepo) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	for _, u := range r.v.snapshotUsers() {
		if u.Username == username && u.ID != id {
			return repositories.ErrUsernameTaken
		}
	}
	return r.update(ctx, id, func(u *models.User) { u.Username = username })
}

func (r *userRepo) UpdateDeposit(ctx context.Context, id uuid.UUID, deposit int64) error {
	if deposit < 0 {
		return fmt.Errorf("deposit %d violates non-negative constraint", deposit)
	}
	return r.update(ctx, id, func(u *models.User) { u.Deposit = deposit })
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := r.v.lock(ctx, rowKey{usersTable, id})
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.v.user(id); !ok {
		return repositories.ErrUserNotFound
	}
	return r.v.putUser(id, nil)
}
