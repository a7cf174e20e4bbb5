package vending

import "vending/internal/models"

// ComputeChange breaks amount into coins, largest denomination first. Every
// primary denomination is listed even when its count is zero; a trailing
// entry for coin 1 appears only when a remainder is left. Negative amounts
// yield nil.
func ComputeChange(amount int64) []models.CoinCount {
	if amount < 0 {
		return nil
	}

	change := make([]models.CoinCount, 0, len(models.ChangeDenominations)+1)
	rest := amount
	for _, coin := range models.ChangeDenominations {
		change = append(change, models.CoinCount{Coin: coin, Amount: rest / coin})
		rest %= coin
	}
	if rest > 0 {
		change = append(change, models.CoinCount{Coin: models.UnitCoin, Amount: rest})
	}
	return change
}
