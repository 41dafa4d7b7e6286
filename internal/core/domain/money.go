package domain

import "github.com/govalues/decimal"

// Amount converts minor units into a currency amount, 150000 -> 1500.00.
func Amount(minor int64) decimal.Decimal {
	return decimal.MustNew(minor, MinorUnitScale)
}

func FormatAmount(minor int64) string {
	return Amount(minor).String()
}
