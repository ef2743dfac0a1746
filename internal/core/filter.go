package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sort orders for expense listings.
const (
	SortDateDesc   ExpenseSort = "date_desc"
	SortDateAsc    ExpenseSort = "date_asc"
	SortAmountDesc ExpenseSort = "amount_desc"
	SortAmountAsc  ExpenseSort = "amount_asc"
)

type (
	// ExpenseSort names a listing order. Ties break on id so pages are
	// stable.
	ExpenseSort string

	// ExpenseFilter narrows expense listings. Zero-valued fields are
	// inactive. Min and Max bound the amount inclusively; From and To
	// bound the date.
	ExpenseFilter struct {
		CategoryID     int64
		From           Date
		To             Date
		Min            decimal.Decimal
		Max            decimal.Decimal
		IncludeDeleted bool
		Sort           ExpenseSort
	}
)

// ParseExpenseSort validates a sort name from user input. Empty input
// selects the default date_desc order.
func ParseExpenseSort(s string) (ExpenseSort, error) {
	switch ExpenseSort(s) {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return ExpenseSort(s), nil
	}
	return "", fmt.Errorf("%w: sort must be one of date_desc, date_asc, amount_desc, amount_asc", ErrValidation)
}
