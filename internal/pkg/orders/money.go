package orders

import "github.com/shopspring/decimal"

// AmountFromMinorUnits converts an integer minor-units amount (cents) to an
// exact decimal. 2599 becomes 25.99 with no float drift.
func AmountFromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}
