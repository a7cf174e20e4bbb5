/*
Package vending implements the buyer side of the machine: coin deposits,
balance reset and the atomic purchase transaction.

Usage:

	svc := vending.NewService(store, cache, vending.Config{}, nil)

	// Insert a coin
	balance, err := svc.Deposit(ctx, identity, 50)

	// Buy two units of a product
	result, err := svc.Purchase(ctx, identity, productID, 2)

	// Hand the remaining coins back
	balance, err = svc.Reset(ctx, identity)

Every operation requires a buyer identity and runs inside one storage
transaction that locks the buyer row and, for purchases, the product row,
always in that order. Failures return domain errors from internal/errors and
leave storage untouched.

Change is reported greedily over the coins 100, 50, 20, 10 and 5, with any
remainder paid in coins of 1.
*/
package vending
