// Package query is the read side of the ledger: filtered listings with
// keyword search over notes, monthly per-category totals, and the
// daily spending trend.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"outlay/internal/core"
	"outlay/internal/crypto"
)

// NotePlaceholder replaces note text that cannot be decrypted.
const NotePlaceholder = "[note unreadable]"

// DefaultPerPage is the page size when the caller does not pick one.
const DefaultPerPage = 20

// decryptWorkers bounds the parallel note decryptions in one search.
const decryptWorkers = 4

// Store is the storage surface queries read from.
type Store interface {
	ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error)
	CategoryByName(ctx context.Context, name string) (*core.Category, error)
	Categories(ctx context.Context) ([]core.Category, error)
	MonthlyCategoryTotals(ctx context.Context, month core.Month) ([]core.CategoryTotal, error)
	DailyTotals(ctx context.Context, from, to core.Date) ([]core.DayTotal, error)
}

// Service answers read-only questions about the ledger.
type Service struct {
	store Store
	notes *crypto.Provider
}

func NewService(store Store, notes *crypto.Provider) *Service {
	return &Service{store: store, notes: notes}
}

// Filter narrows a listing. The structural fields run in SQL; Keyword
// matches note text in memory, where plaintext is visible.
type Filter struct {
	Category       string
	From           core.Date
	To             core.Date
	Min            decimal.Decimal
	Max            decimal.Decimal
	Keyword        string
	IncludeDeleted bool
	// DecryptSearch extends Keyword matching to encrypted notes by
	// revealing candidates in memory. Without it an encrypted note
	// never matches a keyword.
	DecryptSearch bool
	Sort          core.ExpenseSort
	Page          int
	PerPage       int
}

// Result is one page of matches. Total counts matches after keyword
// filtering, so the page math reflects what the user can actually
// reach.
type Result struct {
	Items   []core.Expense
	Total   int
	Page    int
	Pages   int
	PerPage int
}

// List runs the structural filter in SQL, the keyword filter in
// memory, and paginates last.
func (s *Service) List(ctx context.Context, f Filter) (*Result, error) {
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	structural := core.ExpenseFilter{
		From:           f.From,
		To:             f.To,
		Min:            f.Min,
		Max:            f.Max,
		IncludeDeleted: f.IncludeDeleted,
		Sort:           f.Sort,
	}
	if f.Category != "" {
		cat, err := s.store.CategoryByName(ctx, f.Category)
		if errors.Is(err, core.ErrNotFound) {
			// Filtering on a category that was never used matches
			// nothing; it is not an error.
			return &Result{Page: page, PerPage: perPage}, nil
		}
		if err != nil {
			return nil, err
		}
		structural.CategoryID = cat.ID
	}

	items, err := s.store.ListExpenses(ctx, structural)
	if err != nil {
		return nil, err
	}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		items, err = s.matchKeyword(ctx, items, kw, f.DecryptSearch)
		if err != nil {
			return nil, err
		}
	}

	total := len(items)
	pages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	switch {
	case start >= total:
		items = nil
	default:
		end := start + perPage
		if end > total {
			end = total
		}
		items = items[start:end]
	}
	return &Result{Items: items, Total: total, Page: page, Pages: pages, PerPage: perPage}, nil
}

// matchKeyword keeps the expenses whose note contains kw, case
// insensitively. Encrypted notes cannot match unless decrypt is set,
// in which case candidates are revealed a few at a time; a row that
// fails decryption is skipped with a warning, never persisted, and
// never fails the search.
func (s *Service) matchKeyword(ctx context.Context, items []core.Expense, kw string, decrypt bool) ([]core.Expense, error) {
	kw = strings.ToLower(kw)
	keep := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decryptWorkers)
	for i := range items {
		i := i
		switch {
		case !items[i].Note.Encrypted:
			keep[i] = strings.Contains(strings.ToLower(items[i].Note.Body), kw)
		case decrypt:
			g.Go(func() error {
				plain, err := s.notes.Reveal(items[i].Note)
				if err != nil {
					slog.WarnContext(gctx, "Skipping undecryptable note in search",
						"id", items[i].ID, "error", err)
					return nil
				}
				keep[i] = strings.Contains(strings.ToLower(plain), kw)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []core.Expense
	for i, ok := range keep {
		if ok {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// DisplayNote resolves a note for rendering: plaintext comes back
// as-is, encrypted notes are revealed, and an undecryptable one
// renders the placeholder instead of failing the row.
func (s *Service) DisplayNote(n core.Note) string {
	text, err := s.notes.Reveal(n)
	if err != nil {
		return NotePlaceholder
	}
	return text
}

// MonthlyTotals reports non-deleted spending per category for one
// month, ordered by category name.
func (s *Service) MonthlyTotals(ctx context.Context, month core.Month) ([]core.CategoryTotal, error) {
	if month.IsZero() {
		return nil, core.ErrInvalidMonth
	}
	return s.store.MonthlyCategoryTotals(ctx, month)
}

// Trend returns one total per day for the trailing window ending
// today.
func (s *Service) Trend(ctx context.Context, days int) ([]core.DayTotal, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", core.ErrValidation)
	}
	to := core.Today()
	from := core.Date{Time: to.AddDate(0, 0, -(days - 1))}
	return s.TrendRange(ctx, from, to)
}

// TrendRange returns one total per day over an inclusive range, zero
// filled so every day appears even when nothing was spent.
func (s *Service) TrendRange(ctx context.Context, from, to core.Date) ([]core.DayTotal, error) {
	if from.IsZero() || to.IsZero() || from.After(to.Time) {
		return nil, fmt.Errorf("%w: trend range must run oldest to newest", core.ErrValidation)
	}
	rows, err := s.store.DailyTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byDay[r.Date.String()] = r.Total
	}
	var out []core.DayTotal
	for d := from; !d.After(to.Time); d = (core.Date{Time: d.AddDate(0, 0, 1)}) {
		out = append(out, core.DayTotal{Date: d, Total: byDay[d.String()]})
	}
	return out, nil
}

// Categories lists every category ordered by name.
func (s *Service) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}
