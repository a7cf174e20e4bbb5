package vending

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/repositories/cache"
	"vending/internal/repositories/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordOperationDuration(op string, d time.Duration)    { m.Called(op, d) }
func (m *MockMetrics) RecordOperationResult(op, result string)               { m.Called(op, result) }
func (m *MockMetrics) RecordError(op, errType string)                        { m.Called(op, errType) }
func (m *MockMetrics) RecordBalanceChange(id uuid.UUID, before, after int64) { m.Called(id, before, after) }
func (m *MockMetrics) RecordPurchase(id uuid.UUID, qty, spent int64)         { m.Called(id, qty, spent) }

type MockCache struct {
	cache.Noop
	mock.Mock
}

func (m *MockCache) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *MockCache) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

type fixture struct {
	store   *memory.Store
	svc     Service
	buyer   models.Identity
	seller  models.Identity
	product *models.Product
}

func newFixture(t *testing.T, deposit, cost, stock int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	buyer := &models.User{Username: "buyer", Password: "x", Role: models.RoleBuyer}
	require.NoError(t, store.Users().Create(ctx, buyer))
	require.NoError(t, store.Users().UpdateDeposit(ctx, buyer.ID, deposit))

	seller := &models.User{Username: "seller", Password: "x", Role: models.RoleSeller}
	require.NoError(t, store.Users().Create(ctx, seller))

	product := &models.Product{SellerID: seller.ID, ProductName: "Cola", Cost: cost, AmountAvailable: stock}
	require.NoError(t, store.Products().Create(ctx, product))

	return &fixture{
		store:   store,
		svc:     NewService(store, cache.Noop{}, Config{}, nil),
		buyer:   buyer.Identity(),
		seller:  seller.Identity(),
		product: product,
	}
}

func (f *fixture) deposit(t *testing.T) int64 {
	t.Helper()
	u, err := f.store.Users().GetByID(context.Background(), f.buyer.UserID)
	require.NoError(t, err)
	return u.Deposit
}

func (f *fixture) stock(t *testing.T) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return p.AmountAvailable
}

func TestService_Purchase(t *testing.T) {
	f := newFixture(t, 120, 21, 10)

	result, err := f.svc.Purchase(context.Background(), f.buyer, f.product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(63), result.TotalSpent)
	assert.Equal(t, int64(3), result.QuantityPurchased)
	assert.Equal(t, int64(57), result.Remaining)
	assert.Equal(t, int64(7), result.Product.AmountAvailable)
	assert.Equal(t, []models.CoinCount{{Coin: 100, Amount: 0}, {Coin: 50, Amount: 1}, {Coin: 20, Amount: 0}, {Coin: 10, Amount: 0}, {Coin: 5, Amount: 1}, {Coin: 1, Amount: 2}}, result.Change)

	assert.Equal(t, int64(57), f.deposit(t))
	assert.Equal(t, int64(7), f.stock(t))
}

func TestService_PurchaseRejections(t *testing.T) {
	tests := []struct {
		name     string
		deposit  int64
		cost     int64
		stock    int64
		quantity int64
		asSeller bool
		product  *uuid.UUID
		wantErr  error
		wantKind apperrors.Kind
	}{
		{
			name:    "not enough stock",
			deposit: 10, cost: 1, stock: 1, quantity: 10,
			wantErr:  apperrors.ErrInsufficientStock,
			wantKind: apperrors.KindInsufficientStock,
		},
		{
			name:    "not enough money",
			deposit: 5, cost: 1, stock: 100, quantity: 10,
			wantErr:  apperrors.ErrInsufficientFunds,
			wantKind: apperrors.KindInsufficientFunds,
		},
		{
			name:    "zero quantity",
			deposit: 5, cost: 1, stock: 1, quantity: 0,
			wantErr:  apperrors.ErrInvalidQuantity,
			wantKind: apperrors.KindInvalidArgument,
		},
		{
			name:    "zero quantity checked before lookup",
			deposit: 5, cost: 1, stock: 1, quantity: 0,
			product:  ptr(uuid.New()),
			wantErr:  apperrors.ErrInvalidQuantity,
			wantKind: apperrors.KindInvalidArgument,
		},
		{
			name:    "seller cannot buy",
			deposit: 100, cost: 1, stock: 1, quantity: 1,
			asSeller: true,
			wantErr:  apperrors.ErrForbidden,
			wantKind: apperrors.KindForbidden,
		},
		{
			name:    "unknown product",
			deposit: 100, cost: 1, stock: 1, quantity: 1,
			product:  ptr(uuid.New()),
			wantErr:  apperrors.ErrProductNotFound,
			wantKind: apperrors.KindNotFound,
		},
		{
			name:    "cost overflow",
			deposit: 100, cost: math.MaxInt64/2 + 1, stock: 5, quantity: 2,
			wantErr:  apperrors.ErrCostOverflow,
			wantKind: apperrors.KindInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.deposit, tt.cost, tt.stock)
			identity := f.buyer
			if tt.asSeller {
				identity = f.seller
			}
			productID := f.product.ID
			if tt.product != nil {
				productID = *tt.product
			}

			result, err := f.svc.Purchase(context.Background(), identity, productID, tt.quantity)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))

			// Nothing changed.
			assert.Equal(t, tt.deposit, f.deposit(t))
			assert.Equal(t, tt.stock, f.stock(t))
		})
	}
}

func TestService_PurchaseUnknownBuyer(t *testing.T) {
	f := newFixture(t, 100, 5, 5)
	ghost := models.Identity{UserID: uuid.New(), Role: models.RoleBuyer}

	_, err := f.svc.Purchase(context.Background(), ghost, f.product.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Equal(t, int64(5), f.stock(t))
}

var errStockWrite = errors.New("stock write failed")

// failingStore lets every write through except product stock updates.
type failingStore struct {
	repositories.Store
}

func (s *failingStore) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return fn(&failingStore{Store: tx})
	})
}

func (s *failingStore) Products() repositories.ProductRepository {
	return &failingProducts{ProductRepository: s.Store.Products()}
}

type failingProducts struct {
	repositories.ProductRepository
}

func (p *failingProducts) UpdateStock(context.Context, uuid.UUID, int64) error {
	return errStockWrite
}

func TestService_PurchaseIsAtomic(t *testing.T) {
	f := newFixture(t, 100, 20, 5)
	svc := NewService(&failingStore{Store: f.store}, cache.Noop{}, Config{}, nil)

	_, err := svc.Purchase(context.Background(), f.buyer, f.product.ID, 2)
	assert.ErrorIs(t, err, errStockWrite)

	// The deposit debit was staged before the failure and must not survive.
	assert.Equal(t, int64(100), f.deposit(t))
	assert.Equal(t, int64(5), f.stock(t))
}

func TestService_ConcurrentPurchasesNeverOversell(t *testing.T) {
	const (
		buyers = 20
		stock  = 5
		cost   = 10
	)
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, cache.Noop{}, Config{}, nil)

	seller := &models.User{Username: "seller", Role: models.RoleSeller}
	require.NoError(t, store.Users().Create(ctx, seller))
	product := &models.Product{SellerID: seller.ID, ProductName: "Gum", Cost: cost, AmountAvailable: stock}
	require.NoError(t, store.Products().Create(ctx, product))

	identities := make([]models.Identity, buyers)
	for i := range identities {
		u := &models.User{Username: uuid.NewString(), Role: models.RoleBuyer}
		require.NoError(t, store.Users().Create(ctx, u))
		require.NoError(t, store.Users().UpdateDeposit(ctx, u.ID, 100))
		identities[i] = u.Identity()
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		spent     int64
	)
	for _, id := range identities {
		wg.Add(1)
		go func(id models.Identity) {
			defer wg.Done()
			result, err := svc.Purchase(ctx, id, product.ID, 1)
			if err != nil {
				assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
				return
			}
			mu.Lock()
			succeeded++
			spent += result.TotalSpent
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	assert.Equal(t, stock, succeeded)

	p, err := store.Products().GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.AmountAvailable)

	// Conservation: deposits plus spending equal what went in.
	var remaining int64
	for _, id := range identities {
		u, err := store.Users().GetByID(ctx, id.UserID)
		require.NoError(t, err)
		remaining += u.Deposit
	}
	assert.Equal(t, int64(buyers*100), remaining+spent)
	assert.Equal(t, int64(stock*cost), spent)
}

func TestService_PurchaseTimesOutOnLockedRow(t *testing.T) {
	f := newFixture(t, 100, 10, 5)
	svc := NewService(f.store, cache.Noop{}, Config{ProcessingTimeout: 20 * time.Millisecond}, nil)
	ctx := context.Background()

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
			_, err := tx.Users().GetByIDForUpdate(ctx, f.buyer.UserID)
			close(locked)
			<-release
			return err
		})
	}()
	<-locked

	_, err := svc.Purchase(ctx, f.buyer, f.product.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrStorageTimeout)
	assert.Equal(t, apperrors.KindStorageTimeout, apperrors.KindOf(err))

	close(release)
	<-done
	assert.Equal(t, int64(100), f.deposit(t))
}

func TestService_PurchaseInvalidatesCache(t *testing.T) {
	f := newFixture(t, 50, 10, 5)
	c := new(MockCache)
	c.On("DeleteUser", f.buyer.UserID).Return(nil).Once()
	c.On("DeleteProduct", f.product.ID).Return(errors.New("redis down")).Once()

	metrics := new(MockMetrics)
	metrics.On("RecordOperationDuration", opPurchase, mock.Anything).Return()
	metrics.On("RecordError", "cache_invalidate", "product").Return().Once()
	metrics.On("RecordBalanceChange", f.buyer.UserID, int64(50), int64(30)).Return().Once()
	metrics.On("RecordPurchase", f.product.ID, int64(2), int64(20)).Return().Once()
	metrics.On("RecordOperationResult", opPurchase, "success").Return().Once()

	svc := NewService(f.store, c, Config{}, metrics)
	_, err := svc.Purchase(context.Background(), f.buyer, f.product.ID, 2)
	require.NoError(t, err)

	c.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestService_PurchaseRecordsFailure(t *testing.T) {
	f := newFixture(t, 5, 10, 5)
	metrics := new(MockMetrics)
	metrics.On("RecordOperationDuration", opPurchase, mock.Anything).Return()
	metrics.On("RecordError", opPurchase, string(apperrors.KindInsufficientFunds)).Return().Once()
	metrics.On("RecordOperationResult", opPurchase, "failure").Return().Once()

	svc := NewService(f.store, cache.Noop{}, Config{}, metrics)
	_, err := svc.Purchase(context.Background(), f.buyer, f.product.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	metrics.AssertExpectations(t)
}

func TestService_Deposit(t *testing.T) {
	f := newFixture(t, 0, 10, 5)
	ctx := context.Background()

	for _, coin := range []int64{100, 20} {
		_, err := f.svc.Deposit(ctx, f.buyer, coin)
		require.NoError(t, err)
	}
	result, err := f.svc.Deposit(ctx, f.buyer, 5)
	require.NoError(t, err)

	assert.Equal(t, f.buyer.UserID, result.UserID)
	assert.Equal(t, "buyer", result.Username)
	assert.Equal(t, int64(125), result.Deposit)
	assert.Equal(t, []models.CoinCount{{Coin: 100, Amount: 1}, {Coin: 50, Amount: 0}, {Coin: 20, Amount: 1}, {Coin: 10, Amount: 0}, {Coin: 5, Amount: 1}}, result.Change)
	assert.Equal(t, int64(125), f.deposit(t))
}

func TestService_DepositRejections(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		asSeller bool
		wantErr  error
	}{
		{name: "not a coin", amount: 3, wantErr: apperrors.ErrInvalidAmount},
		{name: "zero", amount: 0, wantErr: apperrors.ErrInvalidAmount},
		{name: "negative", amount: -5, wantErr: apperrors.ErrInvalidAmount},
		{name: "seller", amount: 5, asSeller: true, wantErr: apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10, 10, 5)
			identity := f.buyer
			if tt.asSeller {
				identity = f.seller
			}
			_, err := f.svc.Deposit(context.Background(), identity, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(10), f.deposit(t))
		})
	}
}

func TestService_Reset(t *testing.T) {
	f := newFixture(t, 85, 10, 5)

	result, err := f.svc.Reset(context.Background(), f.buyer)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Deposit)
	assert.Equal(t, []models.CoinCount{{Coin: 100, Amount: 0}, {Coin: 50, Amount: 1}, {Coin: 20, Amount: 1}, {Coin: 10, Amount: 1}, {Coin: 5, Amount: 1}}, result.Change)
	assert.Equal(t, int64(0), f.deposit(t))

	_, err = f.svc.Reset(context.Background(), f.seller)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestService_ConcurrentDepositsSerialize(t *testing.T) {
	f := newFixture(t, 0, 10, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Deposit(ctx, f.buyer, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(200), f.deposit(t))
}

func ptr[T any](v T) *T { return &v }
