// Package budget grades spending against per-category month limits.
//
// Thresholds are compared with exact decimal math: spending at or above
// 80% of the limit warns, at or above the limit exceeds. Both
// boundaries are inclusive, so spending exactly the limit is EXCEEDED,
// not WARNING.
package budget

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
)

// Signals from grading one category+month.
const (
	// SignalNone means there was nothing to grade: no budget is set, or
	// the category does not exist.
	SignalNone     Signal = "NONE"
	SignalOK       Signal = "OK"
	SignalWarning  Signal = "WARNING"
	SignalExceeded Signal = "EXCEEDED"
)

// warnRatio is the share of the limit that flips OK to WARNING.
var warnRatio = decimal.New(8, -1)

type (
	// Signal grades spending against a month budget.
	Signal string

	// Evaluation is the result of grading one category+month.
	Evaluation struct {
		Category string
		Month    core.Month
		Spent    decimal.Decimal
		Limit    decimal.Decimal
		Signal   Signal
	}
)

// Alert reports whether the signal deserves a user-facing warning.
func (s Signal) Alert() bool {
	return s == SignalWarning || s == SignalExceeded
}

// Store is the storage surface the monitor needs.
type Store interface {
	ResolveCategory(ctx context.Context, name string) (core.Category, error)
	CategoryByName(ctx context.Context, name string) (*core.Category, error)
	UpsertBudget(ctx context.Context, b core.Budget) error
	BudgetFor(ctx context.Context, categoryID int64, month core.Month) (*core.Budget, error)
	MonthSpend(ctx context.Context, categoryID int64, month core.Month) (decimal.Decimal, error)
}

// Monitor sets budgets and evaluates spending against them.
type Monitor struct {
	store Store
}

func NewMonitor(store Store) *Monitor {
	return &Monitor{store: store}
}

// Set creates or replaces the budget for a category+month. The
// category is created on first use, the same as when adding expenses.
func (m *Monitor) Set(ctx context.Context, category string, month core.Month, limit decimal.Decimal) (core.Budget, error) {
	if month.IsZero() {
		return core.Budget{}, core.ErrInvalidMonth
	}
	if !limit.IsPositive() || limit.Exponent() < -2 {
		return core.Budget{}, core.ErrInvalidLimit
	}
	cat, err := m.store.ResolveCategory(ctx, category)
	if err != nil {
		return core.Budget{}, err
	}
	b := core.Budget{CategoryID: cat.ID, Category: cat.Name, Month: month, Limit: limit}
	if err := m.store.UpsertBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	slog.InfoContext(ctx, "Budget set",
		"category", cat.Name,
		"month", month.String(),
		"limit", limit.String())
	return b, nil
}

// Evaluate grades current spending for a category+month. It is
// read-only and idempotent: evaluating twice in a row reports the same
// signal, and an unknown category is not created, it just grades
// SignalNone.
func (m *Monitor) Evaluate(ctx context.Context, category string, month core.Month) (Evaluation, error) {
	ev := Evaluation{Category: category, Month: month, Signal: SignalNone}
	if month.IsZero() {
		return ev, core.ErrInvalidMonth
	}

	cat, err := m.store.CategoryByName(ctx, category)
	if errors.Is(err, core.ErrNotFound) {
		return ev, nil
	}
	if err != nil {
		return ev, err
	}
	ev.Category = cat.Name

	spent, err := m.store.MonthSpend(ctx, cat.ID, month)
	if err != nil {
		return ev, err
	}
	ev.Spent = spent

	b, err := m.store.BudgetFor(ctx, cat.ID, month)
	if errors.Is(err, core.ErrNotFound) {
		return ev, nil
	}
	if err != nil {
		return ev, err
	}
	ev.Limit = b.Limit
	ev.Signal = grade(spent, b.Limit)
	return ev, nil
}

// grade compares spent against the limit. The multiplication keeps the
// 80% boundary exact: a two-decimal limit times 0.8 has at most three
// decimals, which decimal arithmetic carries without loss.
func grade(spent, limit decimal.Decimal) Signal {
	switch {
	case spent.Cmp(limit) >= 0:
		return SignalExceeded
	case spent.Cmp(limit.Mul(warnRatio)) >= 0:
		return SignalWarning
	default:
		return SignalOK
	}
}
