package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"outlay/internal/core"
)

// appendHistory writes the audit entry for a mutation inside its
// transaction, so a failed append rolls the row change back too.
func appendHistory(ctx context.Context, tx *sql.Tx, expenseID int64, m Mutation) error {
	before, err := snapshotJSON(m.Before)
	if err != nil {
		return storageErr("encode before snapshot", err)
	}
	after, err := snapshotJSON(m.After)
	if err != nil {
		return storageErr("encode after snapshot", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO expense_history (expense_id, action, before_snapshot, after_snapshot, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		expenseID, string(m.Action), before, after, m.At)
	if err != nil {
		return storageErr("append history", err)
	}
	return nil
}

// HistoryForExpense returns the full trail for one expense id, oldest
// first. Entries survive a hard delete of the expense itself.
func (s *Store) HistoryForExpense(ctx context.Context, expenseID int64) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expense_id, action, before_snapshot, after_snapshot, timestamp
		FROM expense_history
		WHERE expense_id = ?
		ORDER BY timestamp ASC, id ASC`, expenseID)
	if err != nil {
		return nil, storageErr("list history", err)
	}
	defer rows.Close()

	var out []core.HistoryEntry
	for rows.Next() {
		var (
			h             core.HistoryEntry
			action        string
			before, after sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.ExpenseID, &action, &before, &after, &h.Timestamp); err != nil {
			return nil, storageErr("scan history", err)
		}
		h.Action = core.Action(action)
		if h.Before, err = decodeSnapshot(before); err != nil {
			return nil, err
		}
		if h.After, err = decodeSnapshot(after); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list history", err)
	}
	return out, nil
}

func snapshotJSON(e *core.Expense) (sql.NullString, error) {
	if e == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeSnapshot(s sql.NullString) (*core.Expense, error) {
	if !s.Valid || s.String == "" || s.String == "null" {
		return nil, nil
	}
	var e core.Expense
	if err := json.Unmarshal([]byte(s.String), &e); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &e, nil
}
