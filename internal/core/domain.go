package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Actions recorded in the expense history trail, in lifecycle order.
const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionSoftDelete Action = "soft_delete"
	ActionRestore    Action = "restore"
	ActionHardDelete Action = "hard_delete"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type (
	// Action names the kind of mutation a history entry records.
	Action string

	// Date is a plain calendar day. It is stored and rendered as
	// YYYY-MM-DD text, so no timezone can shift it across a month
	// boundary.
	Date struct {
		time.Time
	}

	// Month identifies one calendar month, the granularity budgets and
	// summaries work at. Rendered as YYYY-MM.
	Month struct {
		Year  int
		Month time.Month
	}

	// Category groups expenses. Names are unique case-insensitively,
	// stored in title case, and never deleted.
	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// Note is the free-text attachment of an expense. When Encrypted is
	// set, Body holds base64(nonce||ciphertext) instead of plaintext.
	Note struct {
		Body      string `json:"body"`
		Encrypted bool   `json:"encrypted"`
	}

	// Expense is a single ledger entry. Deleted marks soft deletion; the
	// row and its note stay in place until a hard delete. The JSON shape
	// doubles as the history snapshot format, so Category (a joined
	// display name, not part of the stored row) is excluded.
	Expense struct {
		ID         int64           `json:"id"`
		CategoryID int64           `json:"category_id"`
		Category   string          `json:"-"`
		Amount     decimal.Decimal `json:"amount"`
		Currency   string          `json:"currency"`
		Note       Note            `json:"note"`
		Date       Date            `json:"date"`
		Deleted    bool            `json:"deleted"`
		CreatedAt  time.Time       `json:"created_at"`
		UpdatedAt  time.Time       `json:"updated_at"`
	}

	// Budget caps spending for one category in one month. The pair is
	// unique; setting it again replaces the limit.
	Budget struct {
		ID         int64
		CategoryID int64
		Category   string
		Month      Month
		Limit      decimal.Decimal
	}

	// HistoryEntry is one append-only audit record. Before and After are
	// snapshots of the stored row (note ciphertext included, never
	// plaintext); either side may be nil depending on the action.
	HistoryEntry struct {
		ID        int64
		ExpenseID int64
		Action    Action
		Before    *Expense
		After     *Expense
		Timestamp time.Time
	}
)

// Valid reports whether a is one of the recorded actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionSoftDelete, ActionRestore, ActionHardDelete:
		return true
	}
	return false
}

// ParseDate parses YYYY-MM-DD input.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as stored, YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// YearMonth truncates the date to its calendar month.
func (d Date) YearMonth() Month {
	return Month{Year: d.Time.Year(), Month: d.Time.Month()}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseMonth parses YYYY-MM input.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String renders the month as stored, YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Amount.IsPositive() || e.Amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	if _, err := NormalizeCurrency(e.Currency); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID <= 0 {
		return ErrEmptyCategory
	}
	if b.Month.IsZero() {
		return ErrInvalidMonth
	}
	if !b.Limit.IsPositive() || b.Limit.Exponent() < -2 {
		return ErrInvalidLimit
	}
	return nil
}
