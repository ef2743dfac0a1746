package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"outlay/internal/core"
)

const expenseColumns = `e.id, e.category_id, c.name, e.amount_cents, e.currency, e.note, e.note_encrypted, e.date, e.deleted, e.created_at, e.updated_at`

// Mutation is one ledger write: the row change plus the history entry
// that records it, committed atomically. Before is nil for a create,
// After is nil for a hard delete.
type Mutation struct {
	Action core.Action
	Before *core.Expense
	After  *core.Expense
	At     time.Time
}

// ApplyMutation commits m in a single transaction and returns the
// affected expense id. On create the id is assigned here and patched
// into the After snapshot before it is recorded, so history always
// carries the stored row.
func (s *Store) ApplyMutation(ctx context.Context, m Mutation) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin mutation", err)
	}
	defer tx.Rollback()

	var id int64
	switch m.Action {
	case core.ActionCreate:
		res, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (category_id, amount_cents, currency, note, note_encrypted, date, deleted, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.After.CategoryID, core.Cents(m.After.Amount), m.After.Currency,
			m.After.Note.Body, m.After.Note.Encrypted, m.After.Date.String(),
			m.After.Deleted, m.After.CreatedAt, m.After.UpdatedAt)
		if err != nil {
			return 0, storageErr("insert expense", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, storageErr("insert expense id", err)
		}
		m.After.ID = id

	case core.ActionUpdate, core.ActionSoftDelete, core.ActionRestore:
		id = m.After.ID
		res, err := tx.ExecContext(ctx, `
			UPDATE expenses
			SET category_id = ?, amount_cents = ?, currency = ?, note = ?, note_encrypted = ?, date = ?, deleted = ?, updated_at = ?
			WHERE id = ?`,
			m.After.CategoryID, core.Cents(m.After.Amount), m.After.Currency,
			m.After.Note.Body, m.After.Note.Encrypted, m.After.Date.String(),
			m.After.Deleted, m.After.UpdatedAt, id)
		if err != nil {
			return 0, storageErr("update expense", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return 0, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
		}

	case core.ActionHardDelete:
		id = m.Before.ID
		res, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
		if err != nil {
			return 0, storageErr("delete expense", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return 0, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
		}

	default:
		return 0, fmt.Errorf("unknown mutation action %q", m.Action)
	}

	if err := appendHistory(ctx, tx, id, m); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit mutation", err)
	}
	return id, nil
}

// ExpenseByID fetches one expense regardless of its deleted flag.
// Hard-deleted or never-existing ids return ErrNotFound.
func (s *Store) ExpenseByID(ctx context.Context, id int64) (*core.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses e JOIN categories c ON c.id = e.category_id
		WHERE e.id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get expense", err)
	}
	return e, nil
}

// ListExpenses returns all expenses matching the structural filter, in
// the requested order. Keyword matching and pagination happen above
// this layer because encrypted note bodies are opaque to SQL.
func (s *Store) ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeDeleted {
		where = append(where, "e.deleted = 0")
	}
	if f.CategoryID > 0 {
		where = append(where, "e.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if !f.From.IsZero() {
		where = append(where, "e.date >= ?")
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		where = append(where, "e.date <= ?")
		args = append(args, f.To.String())
	}
	if f.Min.IsPositive() {
		where = append(where, "e.amount_cents >= ?")
		args = append(args, core.Cents(f.Min))
	}
	if f.Max.IsPositive() {
		where = append(where, "e.amount_cents <= ?")
		args = append(args, core.Cents(f.Max))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses e JOIN categories c ON c.id = e.category_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy(f.Sort)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr("scan expense", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list expenses", err)
	}
	return out, nil
}

func orderBy(s core.ExpenseSort) string {
	switch s {
	case core.SortDateAsc:
		return "e.date ASC, e.id ASC"
	case core.SortAmountDesc:
		return "e.amount_cents DESC, e.id DESC"
	case core.SortAmountAsc:
		return "e.amount_cents ASC, e.id ASC"
	default:
		return "e.date DESC, e.id DESC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*core.Expense, error) {
	var (
		e     core.Expense
		cents int64
		date  string
	)
	if err := row.Scan(&e.ID, &e.CategoryID, &e.Category, &cents, &e.Currency,
		&e.Note.Body, &e.Note.Encrypted, &date, &e.Deleted, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Amount = core.FromCents(cents)
	d, err := core.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("stored date %q: %w", date, err)
	}
	e.Date = d
	return &e, nil
}
