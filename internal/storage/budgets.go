package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
)

// UpsertBudget sets the limit for one category+month pair, replacing an
// existing limit in place.
func (s *Store) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, month, limit_cents) VALUES (?, ?, ?)
		ON CONFLICT (category_id, month) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.CategoryID, b.Month.String(), core.Cents(b.Limit))
	if err != nil {
		return storageErr("upsert budget", err)
	}
	return nil
}

// BudgetFor returns the budget for the category+month pair, or
// ErrNotFound when none is set.
func (s *Store) BudgetFor(ctx context.Context, categoryID int64, month core.Month) (*core.Budget, error) {
	var (
		b     core.Budget
		mon   string
		cents int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT b.id, b.category_id, c.name, b.month, b.limit_cents
		FROM budgets b JOIN categories c ON c.id = b.category_id
		WHERE b.category_id = ? AND b.month = ?`,
		categoryID, month.String()).
		Scan(&b.ID, &b.CategoryID, &b.Category, &mon, &cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget for category %d in %s: %w", categoryID, month, core.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get budget", err)
	}
	parsed, err := core.ParseMonth(mon)
	if err != nil {
		return nil, fmt.Errorf("stored month %q: %w", mon, err)
	}
	b.Month = parsed
	b.Limit = core.FromCents(cents)
	return &b, nil
}

// MonthSpend sums the non-deleted expenses of one category in one
// month. Soft-deleted rows never count.
func (s *Store) MonthSpend(ctx context.Context, categoryID int64, month core.Month) (decimal.Decimal, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		WHERE category_id = ? AND deleted = 0 AND substr(date, 1, 7) = ?`,
		categoryID, month.String()).Scan(&cents)
	if err != nil {
		return decimal.Zero, storageErr("sum month spend", err)
	}
	return core.FromCents(cents), nil
}
