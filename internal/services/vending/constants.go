package vending

import "time"

// Default configuration values
const (
	DefaultTimeout = 5 * time.Second
)

// Operation names used for metrics.
const (
	opPurchase = "purchase"
	opDeposit  = "deposit"
	opReset    = "reset"
)
