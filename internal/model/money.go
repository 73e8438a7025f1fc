package model

import "github.com/shopspring/decimal"

// RoundMoney rounds to 2 decimal places. Only applied at submission boundaries.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
