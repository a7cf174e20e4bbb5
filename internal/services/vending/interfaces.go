package vending

import (
	"context"

	"vending/internal/models"

	"github.com/google/uuid"
)

// Service defines the buyer-facing vending operations
type Service interface {
	// Purchase buys quantity units of a product with the caller's deposit.
	Purchase(ctx context.Context, identity models.Identity, productID uuid.UUID, quantity int64) (*PurchaseResult, error)

	// Deposit adds one accepted coin to the caller's balance.
	Deposit(ctx context.Context, identity models.Identity, amount int64) (*BalanceResult, error)

	// Reset zeroes the caller's balance and reports the coins handed back.
	Reset(ctx context.Context, identity models.Identity) (*BalanceResult, error)
}
