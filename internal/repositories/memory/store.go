// Package memory implements repositories.Store in process memory. Rows are
// locked individually and a transaction's writes stay private until commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

type rowKey struct {
	table string
	id    uuid.UUID
}

var _ repositories.Store = (*Store)(nil)

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	products map[uuid.UUID]models.Product
	locks    map[rowKey]chan struct{}
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]models.User),
		products: make(map[uuid.UUID]models.Product),
		locks:    make(map[rowKey]chan struct{}),
	}
}

func (s *Store) Users() repositories.UserRepository {
	return &userRepo{v: &view{s: s}}
}

func (s *Store) Products() repositories.ProductRepository {
	return &productRepo{v: &view{s: s}}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctxErr(ctx)
}

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	v := &view{s: s, tx: newTx()}
	defer v.tx.release()

	if err := fn(v); err != nil {
		return err
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}
	return s.commit(v.tx)
}

func (s *Store) rowLock(k rowKey) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[k]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[k] = ch
	}
	return ch
}

// ctxErr reports a finished context as a storage timeout.
func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", repositories.ErrStorageTimeout, err)
	}
	return nil
}

func acquire(ctx context.Context, ch chan struct{}) error {
	// An expired context must fail even when the lock is free.
	if err := ctxErr(ctx); err != nil {
		return err
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", repositories.ErrStorageTimeout, ctx.Err())
	}
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range t.users {
		if u == nil {
			continue
		}
		for otherID, other := range s.users {
			if otherID != id && other.Username == u.Username {
				return repositories.ErrUsernameTaken
			}
		}
	}

	for id, u := range t.users {
		if u == nil {
			delete(s.users, id)
			continue
		}
		s.users[id] = *u
	}
	for id, p := range t.products {
		if p == nil {
			delete(s.products, id)
			continue
		}
		s.products[id] = *p
	}
	return nil
}

// tx buffers writes. A nil entry marks a deleted row.
type tx struct {
	users    map[uuid.UUID]*models.User
	products map[uuid.UUID]*models.Product
	held     map[rowKey]chan struct{}
}

func newTx() *tx {
	return &tx{
		users:    make(map[uuid.UUID]*models.User),
		products: make(map[uuid.UUID]*models.Product),
		held:     make(map[rowKey]chan struct{}),
	}
}

func (t *tx) release() {
	for k, ch := range t.held {
		<-ch
		delete(t.held, k)
	}
}

// view is the Store seen either directly or from inside a transaction.
type view struct {
	s  *Store
	tx *tx
}

func (v *view) Users() repositories.UserRepository       { return &userRepo{v: v} }
func (v *view) Products() repositories.ProductRepository { return &productRepo{v: v} }
func (v *view) Ping(ctx context.Context) error            { return v.s.Ping(ctx) }

func (v *view) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if v.tx != nil {
		return fn(v)
	}
	return v.s.ExecuteInTransaction(ctx, fn)
}

// lock takes the row lock for the rest of the transaction. Outside a
// transaction it returns an unlock func to call once the write is applied.
func (v *view) lock(ctx context.Context, k rowKey) (func(), error) {
	if v.tx != nil {
		if _, ok := v.tx.held[k]; ok {
			return func() {}, nil
		}
	}
	ch := v.s.rowLock(k)
	if err := acquire(ctx, ch); err != nil {
		return nil, err
	}
	if v.tx != nil {
		v.tx.held[k] = ch
		return func() {}, nil
	}
	return func() { <-ch }, nil
}

func (v *view) user(id uuid.UUID) (models.User, bool) {
	if v.tx != nil {
		if u, ok := v.tx.users[id]; ok {
			if u == nil {
				return models.User{}, false
			}
			return *u, true
		}
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	u, ok := v.s.users[id]
	return u, ok
}

func (v *view) product(id uuid.UUID) (models.Product, bool) {
	if v.tx != nil {
		if p, ok := v.tx.products[id]; ok {
			if p == nil {
				return models.Product{}, false
			}
			return *p, true
		}
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.products[id]
	return p, ok
}

// putUser stages u in the transaction or writes it through.
func (v *view) putUser(id uuid.UUID, u *models.User) error {
	if v.tx != nil {
		v.tx.users[id] = u
		return nil
	}
	t := newTx()
	t.users[id] = u
	return v.s.commit(t)
}

func (v *view) putProduct(id uuid.UUID, p *models.Product) error {
	if v.tx != nil {
		v.tx.products[id] = p
		return nil
	}
	t := newTx()
	t.products[id] = p
	return v.s.commit(t)
}

// snapshotUsers merges committed rows with the transaction's staged rows.
func (v *view) snapshotUsers() []models.User {
	v.s.mu.RLock()
	merged := make(map[uuid.UUID]models.User, len(v.s.users))
	for id, u := range v.s.users {
		merged[id] = u
	}
	v.s.mu.RUnlock()

	if v.tx != nil {
		for id, u := range v.tx.users {
			if u == nil {
				delete(merged, id)
				continue
			}
			merged[id] = *u
		}
	}

	out := make([]models.User, 0, len(merged))
	for _, u := range merged {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (v *view) snapshotProducts() []models.Product {
	v.s.mu.RLock()
	merged := make(map[uuid.UUID]models.Product, len(v.s.products))
	for id, p := range v.s.products {
		merged[id] = p
	}
	v.s.mu.RUnlock()

	if v.tx != nil {
		for id, p := range v.tx.products {
			if p == nil {
				delete(merged, id)
				continue
			}
			merged[id] = *p
		}
	}

	out := make([]models.Product, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
