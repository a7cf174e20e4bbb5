package vending

import (
	"context"
	"math"
	"time"

	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"
)

func (s *service) Deposit(ctx context.Context, identity models.Identity, amount int64) (*BalanceResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opDeposit, time.Since(start)) }()

	if !models.HasRole(identity, models.RoleBuyer) {
		return nil, s.fail(opDeposit, apperrors.ErrForbidden)
	}
	if !models.IsDepositDenomination(amount) {
		return nil, s.fail(opDeposit, apperrors.ErrInvalidAmount)
	}

	var before int64
	result, err := s.updateBalance(ctx, identity, func(current int64) (int64, error) {
		if current > math.MaxInt64-amount {
			return 0, apperrors.ErrInvalidAmount.WithMessage("deposit limit reached")
		}
		before = current
		return current + amount, nil
	})
	if err != nil {
		return nil, s.fail(opDeposit, err)
	}

	result.Change = ComputeChange(result.Deposit)
	s.metrics.RecordBalanceChange(identity.UserID, before, result.Deposit)
	s.metrics.RecordOperationResult(opDeposit, "success")
	return result, nil
}

func (s *service) Reset(ctx context.Context, identity models.Identity) (*BalanceResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opReset, time.Since(start)) }()

	if !models.HasRole(identity, models.RoleBuyer) {
		return nil, s.fail(opReset, apperrors.ErrForbidden)
	}

	var returned int64
	result, err := s.updateBalance(ctx, identity, func(current int64) (int64, error) {
		returned = current
		return 0, nil
	})
	if err != nil {
		return nil, s.fail(opReset, err)
	}

	// The coins handed back, not the new zero balance.
	result.Change = ComputeChange(returned)
	s.metrics.RecordBalanceChange(identity.UserID, returned, 0)
	s.metrics.RecordOperationResult(opReset, "success")
	return result, nil
}

// updateBalance locks the caller's row, applies next to the stored deposit
// and persists the outcome in one transaction.
func (s *service) updateBalance(ctx context.Context, identity models.Identity, next func(current int64) (int64, error)) (*BalanceResult, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.config.ProcessingTimeout)
	defer cancel()

	var result *BalanceResult
	err := s.store.ExecuteInTransaction(opCtx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByIDForUpdate(opCtx, identity.UserID)
		if err != nil {
			return err
		}
		deposit, err := next(user.Deposit)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdateDeposit(opCtx, user.ID, deposit); err != nil {
			return err
		}
		result = &BalanceResult{
			UserID:   user.ID,
			Username: user.Username,
			Deposit:  deposit,
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.FromStorage(err)
	}

	s.invalidateUser(ctx, identity.UserID)
	return result, nil
}
