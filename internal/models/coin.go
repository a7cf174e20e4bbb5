package models

// ChangeDenominations are the coins change is paid out in, largest first.
// Coin 1 is not listed; it only absorbs whatever the larger coins cannot.
var ChangeDenominations = []int64{100, 50, 20, 10, 5}

// UnitCoin is the terminal denomination of a change breakdown.
const UnitCoin int64 = 1

// DepositDenominations are the coins a buyer may insert.
var DepositDenominations = []int64{5, 10, 20, 50, 100}

// CoinCount is one line of a change breakdown.
type CoinCount struct {
	Coin   int64 `json:"coin"`
	Amount int64 `json:"amount"`
}

// IsDepositDenomination reports whether amount is an accepted coin.
func IsDepositDenomination(amount int64) bool {
	for _, d := range DepositDenominations {
		if d == amount {
			return true
		}
	}
	return false
}
