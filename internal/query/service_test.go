package query

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlay/internal/core"
	"outlay/internal/crypto"
	"outlay/internal/storage"
)

func newService(t *testing.T, notes *crypto.Provider) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "outlay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store, notes), store
}

func plainProvider(t *testing.T) *crypto.Provider {
	t.Helper()
	p, err := crypto.New(crypto.Config{})
	require.NoError(t, err)
	return p
}

func keyedProvider(t *testing.T) *crypto.Provider {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	p, err := crypto.New(crypto.Config{Enabled: true, Key: key})
	require.NoError(t, err)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func addExpense(t *testing.T, s *storage.Store, notes *crypto.Provider, category, amount, day, noteText string) *core.Expense {
	t.Helper()
	ctx := context.Background()
	cat, err := s.ResolveCategory(ctx, category)
	require.NoError(t, err)
	note, err := notes.Encrypt(noteText)
	require.NoError(t, err)
	now := time.Now().UTC()
	e := &core.Expense{
		CategoryID: cat.ID,
		Amount:     dec(amount),
		Currency:   "INR",
		Note:       note,
		Date:       date(day),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = s.ApplyMutation(ctx, storage.Mutation{Action: core.ActionCreate, After: e, At: now})
	require.NoError(t, err)
	e.Category = cat.Name
	return e
}

func TestListPaginatesAfterKeywordFilter(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		addExpense(t, store, svc.notes, "Transport", "10.00", "2025-03-10", "Taxi to the airport")
	}
	addExpense(t, store, svc.notes, "Transport", "10.00", "2025-03-10", "Bus pass")
	addExpense(t, store, svc.notes, "Food", "10.00", "2025-03-10", "")

	res, err := svc.List(ctx, Filter{Keyword: "taxi", PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total, "total must count keyword matches, not rows fetched")
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Items, 2)

	res, err = svc.List(ctx, Filter{Keyword: "taxi", PerPage: 2, Page: 3})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = svc.List(ctx, Filter{Keyword: "taxi", PerPage: 2, Page: 4})
	require.NoError(t, err)
	assert.Empty(t, res.Items, "pages past the end are empty")
	assert.Equal(t, 5, res.Total)
}

func TestListDefaultPageSize(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	for i := 0; i < DefaultPerPage+3; i++ {
		addExpense(t, store, svc.notes, "Food", "1.00", "2025-03-10", "")
	}

	res, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, res.Items, DefaultPerPage)
	assert.Equal(t, DefaultPerPage+3, res.Total)
	assert.Equal(t, 2, res.Pages)
}

func TestListFiltersByCategoryName(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	addExpense(t, store, svc.notes, "Food", "12.00", "2025-03-10", "")
	addExpense(t, store, svc.notes, "Transport", "8.00", "2025-03-10", "")

	res, err := svc.List(ctx, Filter{Category: "food"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Food", res.Items[0].Category)
}

func TestListUnknownCategoryMatchesNothing(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	addExpense(t, store, svc.notes, "Food", "12.00", "2025-03-10", "")

	res, err := svc.List(ctx, Filter{Category: "Ghost"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Zero(t, res.Pages)
	assert.Empty(t, res.Items)
}

func TestKeywordIgnoresEncryptedNotesByDefault(t *testing.T) {
	notes := keyedProvider(t)
	svc, store := newService(t, notes)
	ctx := context.Background()

	addExpense(t, store, notes, "Transport", "10.00", "2025-03-10", "Taxi to the airport")
	plain := plainProvider(t)
	addExpense(t, store, plain, "Transport", "11.00", "2025-03-11", "Taxi home")

	res, err := svc.List(ctx, Filter{Keyword: "taxi"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1, "encrypted notes stay out of keyword search unless asked")
	assert.True(t, res.Items[0].Amount.Equal(dec("11.00")))

	res, err = svc.List(ctx, Filter{Keyword: "taxi", DecryptSearch: true})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Total)
}

func TestDecryptSearchSkipsUndecryptableRows(t *testing.T) {
	otherKey := keyedProvider(t)
	svc, store := newService(t, keyedProvider(t))
	ctx := context.Background()

	// Written under a key this service does not hold.
	addExpense(t, store, otherKey, "Transport", "10.00", "2025-03-10", "Taxi to the airport")
	addExpense(t, store, plainProvider(t), "Transport", "11.00", "2025-03-11", "Taxi home")

	res, err := svc.List(ctx, Filter{Keyword: "taxi", DecryptSearch: true})
	require.NoError(t, err, "an unreadable note must not fail the search")
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].Amount.Equal(dec("11.00")))
}

func TestListStructuralFiltersCombine(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	addExpense(t, store, svc.notes, "Food", "5.00", "2025-03-01", "market run")
	addExpense(t, store, svc.notes, "Food", "50.00", "2025-03-15", "market haul")
	addExpense(t, store, svc.notes, "Food", "50.00", "2025-04-15", "market haul")

	res, err := svc.List(ctx, Filter{
		Category: "Food",
		From:     date("2025-03-01"),
		To:       date("2025-03-31"),
		Min:      dec("10.00"),
		Keyword:  "market",
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "2025-03-15", res.Items[0].Date.String())
}

func TestDisplayNote(t *testing.T) {
	notes := keyedProvider(t)
	svc, _ := newService(t, notes)

	encrypted, err := notes.Encrypt("rent for march")
	require.NoError(t, err)
	assert.Equal(t, "rent for march", svc.DisplayNote(encrypted))
	assert.Equal(t, "groceries", svc.DisplayNote(core.Note{Body: "groceries"}))

	stranger, _ := newService(t, keyedProvider(t))
	assert.Equal(t, NotePlaceholder, stranger.DisplayNote(encrypted))
}

func TestMonthlyTotals(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	addExpense(t, store, svc.notes, "Food", "12.50", "2025-03-10", "")
	addExpense(t, store, svc.notes, "Food", "7.50", "2025-03-20", "")
	addExpense(t, store, svc.notes, "Transport", "4.00", "2025-04-01", "")

	m, err := core.ParseMonth("2025-03")
	require.NoError(t, err)
	totals, err := svc.MonthlyTotals(ctx, m)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "Food", totals[0].Category)
	assert.True(t, totals[0].Total.Equal(dec("20.00")))

	_, err = svc.MonthlyTotals(ctx, core.Month{})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestTrendRangeFillsEmptyDays(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	addExpense(t, store, svc.notes, "Food", "3.00", "2025-03-01", "")
	addExpense(t, store, svc.notes, "Food", "4.00", "2025-03-03", "")

	points, err := svc.TrendRange(ctx, date("2025-03-01"), date("2025-03-04"))
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, "2025-03-01", points[0].Date.String())
	assert.True(t, points[0].Total.Equal(dec("3.00")))
	assert.True(t, points[1].Total.IsZero(), "days without spending read as zero")
	assert.True(t, points[2].Total.Equal(dec("4.00")))
	assert.True(t, points[3].Total.IsZero())
}

func TestTrendRejectsBadRanges(t *testing.T) {
	svc, _ := newService(t, plainProvider(t))
	ctx := context.Background()

	_, err := svc.Trend(ctx, 0)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.TrendRange(ctx, date("2025-03-04"), date("2025-03-01"))
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCategories(t *testing.T) {
	svc, store := newService(t, plainProvider(t))
	ctx := context.Background()

	addExpense(t, store, svc.notes, "transport", "1.00", "2025-03-01", "")
	addExpense(t, store, svc.notes, "food", "1.00", "2025-03-01", "")

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].Name)
	assert.Equal(t, "Transport", cats[1].Name)
}
