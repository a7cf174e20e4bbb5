package vending

import (
	"time"

	"vending/internal/models"

	"github.com/google/uuid"
)

// Config holds configuration for vending operations
type Config struct {
	// ProcessingTimeout bounds each operation including lock waits.
	ProcessingTimeout time.Duration
}

// PurchaseResult is returned to the buyer after a successful purchase.
type PurchaseResult struct {
	TotalSpent        int64              `json:"totalSpent"`
	Product           models.Product     `json:"product"`
	QuantityPurchased int64              `json:"productsPurchased"`
	Remaining         int64              `json:"-"`
	Change            []models.CoinCount `json:"change"`
}

// BalanceResult is returned by Deposit and Reset.
type BalanceResult struct {
	UserID   uuid.UUID          `json:"id"`
	Username string             `json:"username"`
	Deposit  int64              `json:"deposit"`
	Change   []models.CoinCount `json:"change"`
}

// MetricsCollector defines the interface for collecting vending metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Error metrics
	RecordError(operation, errType string)

	// Balance metrics
	RecordBalanceChange(userID uuid.UUID, oldBalance, newBalance int64)

	// Sales metrics
	RecordPurchase(productID uuid.UUID, quantity, totalSpent int64)
}
