package storage

import (
	"context"
	"fmt"

	"outlay/internal/core"
)

// MonthlyCategoryTotals aggregates non-deleted spending per category
// for one month, ordered by category name.
func (s *Store) MonthlyCategoryTotals(ctx context.Context, month core.Month) ([]core.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, SUM(e.amount_cents)
		FROM expenses e JOIN categories c ON c.id = e.category_id
		WHERE e.deleted = 0 AND substr(e.date, 1, 7) = ?
		GROUP BY c.id, c.name
		ORDER BY c.name`, month.String())
	if err != nil {
		return nil, storageErr("month totals", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var (
			t     core.CategoryTotal
			cents int64
		)
		if err := rows.Scan(&t.Category, &cents); err != nil {
			return nil, storageErr("scan month total", err)
		}
		t.Total = core.FromCents(cents)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("month totals", err)
	}
	return out, nil
}

// DailyTotals sums non-deleted spending per day over an inclusive date
// range. Days without expenses produce no row; callers fill the gaps.
func (s *Store) DailyTotals(ctx context.Context, from, to core.Date) ([]core.DayTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.date, SUM(e.amount_cents)
		FROM expenses e
		WHERE e.deleted = 0 AND e.date >= ? AND e.date <= ?
		GROUP BY e.date
		ORDER BY e.date`, from.String(), to.String())
	if err != nil {
		return nil, storageErr("daily totals", err)
	}
	defer rows.Close()

	var out []core.DayTotal
	for rows.Next() {
		var (
			day   string
			cents int64
		)
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, storageErr("scan daily total", err)
		}
		d, err := core.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", day, err)
		}
		out = append(out, core.DayTotal{Date: d, Total: core.FromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("daily totals", err)
	}
	return out, nil
}
