package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"outlay/internal/budget"
	"outlay/internal/cli"
	"outlay/internal/config"
	"outlay/internal/core"
	"outlay/internal/crypto"
	"outlay/internal/ledger"
	"outlay/internal/query"
	"outlay/internal/storage"
)

// app bundles the wired services one command invocation needs. Open it
// at the top of RunE and Close it when done.
type app struct {
	cfg     *config.Config
	store   *storage.Store
	notes   *crypto.Provider
	ledger  *ledger.Service
	query   *query.Service
	monitor *budget.Monitor
}

func openApp() (*app, error) {
	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	store, err := cli.OpenStore(logger, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	notes, err := crypto.New(cfg.Crypto())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	monitor := budget.NewMonitor(store)
	return &app{
		cfg:     cfg,
		store:   store,
		notes:   notes,
		ledger:  ledger.NewService(store, monitor, notes),
		query:   query.NewService(store, notes),
		monitor: monitor,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: expense id must be a positive number", core.ErrValidation)
	}
	return id, nil
}

// printAlerts surfaces budget signals worth acting on. OK and NONE
// stay quiet.
func printAlerts(w io.Writer, evals ...budget.Evaluation) {
	for _, ev := range evals {
		if !ev.Signal.Alert() {
			continue
		}
		fmt.Fprintf(w, "%s: %s budget for %s at %s of %s\n",
			ev.Signal, ev.Category, ev.Month,
			ev.Spent.StringFixed(2), ev.Limit.StringFixed(2))
	}
}

// renderExpenses prints a listing as an aligned table. Notes are
// revealed for display only and clipped to keep rows on one line.
func renderExpenses(w io.Writer, q *query.Service, items []core.Expense, withState bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "ID\tDATE\tCATEGORY\tAMOUNT\tCURR\tNOTE"
	if withState {
		header += "\tSTATE"
	}
	fmt.Fprintln(tw, header)
	for _, e := range items {
		row := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s",
			e.ID, e.Date, e.Category, e.Amount.StringFixed(2), e.Currency,
			clip(q.DisplayNote(e.Note), 40))
		if withState {
			state := "live"
			if e.Deleted {
				state = "deleted"
			}
			row += "\t" + state
		}
		fmt.Fprintln(tw, row)
	}
	tw.Flush()
}

// clip shortens s to at most n runes for single-line table cells.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
