package services

import "github.com/shopspring/decimal"

// formatCents renders minor units as a whole-unit amount with two decimals
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
