package vending

import (
	"context"
	"math"
	"time"

	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	store   repositories.Store
	cache   repositories.CacheRepository
	config  Config
	metrics MetricsCollector
}

// NewService creates a new vending service
func NewService(
	store repositories.Store,
	cache repositories.CacheRepository,
	config Config,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	if config.ProcessingTimeout <= 0 {
		config.ProcessingTimeout = DefaultTimeout
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Purchase(ctx context.Context, identity models.Identity, productID uuid.UUID, quantity int64) (*PurchaseResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opPurchase, time.Since(start)) }()

	if !models.HasRole(identity, models.RoleBuyer) {
		return nil, s.fail(opPurchase, apperrors.ErrForbidden)
	}
	if quantity < 1 {
		return nil, s.fail(opPurchase, apperrors.ErrInvalidQuantity)
	}

	opCtx, cancel := context.WithTimeout(ctx, s.config.ProcessingTimeout)
	defer cancel()

	var (
		result     *PurchaseResult
		oldDeposit int64
	)
	err := s.store.ExecuteInTransaction(opCtx, func(tx repositories.Store) error {
		// Buyer before product, always.
		buyer, err := tx.Users().GetByIDForUpdate(opCtx, identity.UserID)
		if err != nil {
			return err
		}
		product, err := tx.Products().GetByIDForUpdate(opCtx, productID)
		if err != nil {
			return err
		}

		totalCost, ok := multiply(product.Cost, quantity)
		if !ok {
			return apperrors.ErrCostOverflow
		}
		if buyer.Deposit < totalCost {
			return apperrors.ErrInsufficientFunds
		}
		if product.AmountAvailable < quantity {
			return apperrors.ErrInsufficientStock
		}

		remaining := buyer.Deposit - totalCost
		if err := tx.Users().UpdateDeposit(opCtx, buyer.ID, remaining); err != nil {
			return err
		}
		product.AmountAvailable -= quantity
		if err := tx.Products().UpdateStock(opCtx, product.ID, product.AmountAvailable); err != nil {
			return err
		}

		oldDeposit = buyer.Deposit
		result = &PurchaseResult{
			TotalSpent:        totalCost,
			Product:           *product,
			QuantityPurchased: quantity,
			Remaining:         remaining,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(opPurchase, apperrors.FromStorage(err))
	}

	result.Change = ComputeChange(result.Remaining)

	s.invalidateUser(ctx, identity.UserID)
	s.invalidateProduct(ctx, productID)

	s.metrics.RecordBalanceChange(identity.UserID, oldDeposit, result.Remaining)
	s.metrics.RecordPurchase(productID, quantity, result.TotalSpent)
	s.metrics.RecordOperationResult(opPurchase, "success")
	return result, nil
}

// fail records err against op and returns it.
func (s *service) fail(op string, err error) error {
	errType := string(apperrors.KindOf(err))
	if errType == "" {
		errType = "internal"
	}
	s.metrics.RecordError(op, errType)
	s.metrics.RecordOperationResult(op, "failure")
	return err
}

// multiply returns a*b for positive operands and reports overflow.
func multiply(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}
