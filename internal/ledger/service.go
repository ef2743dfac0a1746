// Package ledger implements the expense mutations and their audit
// protocol. Every write commits the row change and exactly one history
// entry in a single transaction, then reports the budget signal for
// each category+month the write touched.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"outlay/internal/budget"
	"outlay/internal/core"
	"outlay/internal/crypto"
	"outlay/internal/storage"
)

// Store is the storage surface the ledger needs.
type Store interface {
	ResolveCategory(ctx context.Context, name string) (core.Category, error)
	ExpenseByID(ctx context.Context, id int64) (*core.Expense, error)
	ApplyMutation(ctx context.Context, m storage.Mutation) (int64, error)
	HistoryForExpense(ctx context.Context, id int64) ([]core.HistoryEntry, error)
}

// Evaluator grades a category+month after a mutation touched it.
type Evaluator interface {
	Evaluate(ctx context.Context, category string, month core.Month) (budget.Evaluation, error)
}

// Service orchestrates expense mutations across storage, note
// encryption, and budget evaluation.
type Service struct {
	store Store
	eval  Evaluator
	notes *crypto.Provider
}

func NewService(store Store, eval Evaluator, notes *crypto.Provider) *Service {
	return &Service{store: store, eval: eval, notes: notes}
}

// AddParams describe a new expense. Amount and Date are already parsed;
// Note is plaintext and is encrypted here if encryption is on.
type AddParams struct {
	Category string
	Amount   decimal.Decimal
	Currency string
	Note     string
	Date     core.Date
}

// UpdateParams carry the fields to change; nil means leave as is. A
// non-nil Note is re-encrypted under the current mode, so updating a
// note after enabling encryption encrypts it.
type UpdateParams struct {
	Category *string
	Amount   *decimal.Decimal
	Currency *string
	Note     *string
	Date     *core.Date
}

// Result pairs the expense state after a mutation with the budget
// signal for its category+month.
type Result struct {
	Expense    *core.Expense
	Evaluation budget.Evaluation
}

// UpdateResult carries one evaluation per touched category+month pair:
// the pair the expense left first, then the one it now sits in.
type UpdateResult struct {
	Expense     *core.Expense
	Evaluations []budget.Evaluation
}

// Add validates and stores a new expense. The category is created on
// first use; the CREATE history entry carries the stored row as its
// after snapshot.
func (s *Service) Add(ctx context.Context, p AddParams) (*Result, error) {
	currency, err := core.NormalizeCurrency(p.Currency)
	if err != nil {
		return nil, err
	}
	cat, err := s.store.ResolveCategory(ctx, p.Category)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.Encrypt(p.Note)
	if err != nil {
		return nil, fmt.Errorf("encrypt note: %w", err)
	}

	now := time.Now().UTC()
	e := &core.Expense{
		CategoryID: cat.ID,
		Category:   cat.Name,
		Amount:     p.Amount,
		Currency:   currency,
		Note:       note,
		Date:       p.Date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	id, err := s.store.ApplyMutation(ctx, storage.Mutation{Action: core.ActionCreate, After: e, At: now})
	if err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense added",
		"id", id,
		"category", cat.Name,
		"amount", p.Amount.String(),
		"currency", currency,
		"date", p.Date.String())

	return &Result{Expense: e, Evaluation: s.check(ctx, cat.Name, p.Date.YearMonth())}, nil
}

// Update applies the non-nil fields to an existing expense. Soft-deleted
// expenses can be updated; hard-deleted ids are NotFound. An update
// with no fields set is rejected rather than recorded as an empty
// history entry.
func (s *Service) Update(ctx context.Context, id int64, p UpdateParams) (*UpdateResult, error) {
	if p.Category == nil && p.Amount == nil && p.Currency == nil && p.Note == nil && p.Date == nil {
		return nil, core.ErrEmptyUpdate
	}

	before, err := s.store.ExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	after := *before
	if p.Category != nil {
		cat, err := s.store.ResolveCategory(ctx, *p.Category)
		if err != nil {
			return nil, err
		}
		after.CategoryID = cat.ID
		after.Category = cat.Name
	}
	if p.Amount != nil {
		after.Amount = *p.Amount
	}
	if p.Currency != nil {
		currency, err := core.NormalizeCurrency(*p.Currency)
		if err != nil {
			return nil, err
		}
		after.Currency = currency
	}
	if p.Note != nil {
		note, err := s.notes.Encrypt(*p.Note)
		if err != nil {
			return nil, fmt.Errorf("encrypt note: %w", err)
		}
		after.Note = note
	}
	if p.Date != nil {
		after.Date = *p.Date
	}
	after.UpdatedAt = time.Now().UTC()
	if err := after.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.ApplyMutation(ctx, storage.Mutation{
		Action: core.ActionUpdate,
		Before: before,
		After:  &after,
		At:     after.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated",
		"id", id,
		"category", after.Category,
		"amount", after.Amount.String())

	res := &UpdateResult{Expense: &after}
	oldCat, oldMonth := before.Category, before.Date.YearMonth()
	newCat, newMonth := after.Category, after.Date.YearMonth()
	if oldCat != newCat || oldMonth != newMonth {
		res.Evaluations = append(res.Evaluations, s.check(ctx, oldCat, oldMonth))
	}
	res.Evaluations = append(res.Evaluations, s.check(ctx, newCat, newMonth))
	return res, nil
}

// SoftDelete flags an expense deleted without touching the row data.
// Deleting twice fails with AlreadyDeleted and records nothing.
func (s *Service) SoftDelete(ctx context.Context, id int64) (*Result, error) {
	before, err := s.store.ExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Deleted {
		return nil, fmt.Errorf("expense %d: %w", id, core.ErrAlreadyDeleted)
	}

	after := *before
	after.Deleted = true
	after.UpdatedAt = time.Now().UTC()
	if _, err := s.store.ApplyMutation(ctx, storage.Mutation{
		Action: core.ActionSoftDelete,
		Before: before,
		After:  &after,
		At:     after.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("soft delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense soft-deleted", "id", id)
	return &Result{Expense: &after, Evaluation: s.check(ctx, after.Category, after.Date.YearMonth())}, nil
}

// Restore clears the deleted flag. Restoring a live expense fails with
// NotDeleted and records nothing.
func (s *Service) Restore(ctx context.Context, id int64) (*Result, error) {
	before, err := s.store.ExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !before.Deleted {
		return nil, fmt.Errorf("expense %d: %w", id, core.ErrNotDeleted)
	}

	after := *before
	after.Deleted = false
	after.UpdatedAt = time.Now().UTC()
	if _, err := s.store.ApplyMutation(ctx, storage.Mutation{
		Action: core.ActionRestore,
		Before: before,
		After:  &after,
		At:     after.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("restore expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense restored", "id", id)
	return &Result{Expense: &after, Evaluation: s.check(ctx, after.Category, after.Date.YearMonth())}, nil
}

// HardDelete removes the row and its note for good. The HARD_DELETE
// entry keeps the final state as its before snapshot, and the earlier
// trail stays queryable under the old id.
func (s *Service) HardDelete(ctx context.Context, id int64) error {
	before, err := s.store.ExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.store.ApplyMutation(ctx, storage.Mutation{
		Action: core.ActionHardDelete,
		Before: before,
		At:     time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("hard delete expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense hard-deleted", "id", id)
	return nil
}

// Get fetches one expense, soft-deleted or not.
func (s *Service) Get(ctx context.Context, id int64) (*core.Expense, error) {
	return s.store.ExpenseByID(ctx, id)
}

// History returns the audit trail for an expense id, oldest first. Ids
// whose expense was hard-deleted still return their trail; ids never
// used return an empty one.
func (s *Service) History(ctx context.Context, id int64) ([]core.HistoryEntry, error) {
	return s.store.HistoryForExpense(ctx, id)
}

// check evaluates a touched category+month. The mutation is already
// committed at this point, so evaluation failures only log and report
// no signal instead of failing the operation.
func (s *Service) check(ctx context.Context, category string, month core.Month) budget.Evaluation {
	ev, err := s.eval.Evaluate(ctx, category, month)
	if err != nil {
		slog.WarnContext(ctx, "Budget evaluation failed",
			"category", category,
			"month", month.String(),
			"error", err)
		return budget.Evaluation{Category: category, Month: month, Signal: budget.SignalNone}
	}
	return ev
}
