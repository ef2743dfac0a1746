package core

import "github.com/shopspring/decimal"

// CategoryTotal is an amount aggregated under one category name.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// DayTotal is an amount aggregated under one calendar day.
type DayTotal struct {
	Date  Date
	Total decimal.Decimal
}

// GrandTotal sums category totals for a month overview footer.
func GrandTotal(totals []CategoryTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum
}
