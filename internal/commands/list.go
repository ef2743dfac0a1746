package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/cli"
	"outlay/internal/core"
	"outlay/internal/query"
)

// filterFlags are the listing filters shared by list and export.
type filterFlags struct {
	category       string
	from           string
	to             string
	min            string
	max            string
	keyword        string
	includeDeleted bool
	decryptSearch  bool
	sort           string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "only this category")
	cmd.Flags().StringVar(&f.from, "from", "", "oldest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "newest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.min, "min", "", "minimum amount")
	cmd.Flags().StringVar(&f.max, "max", "", "maximum amount")
	cmd.Flags().StringVarP(&f.keyword, "keyword", "k", "", "only notes containing this text")
	cmd.Flags().BoolVar(&f.includeDeleted, "include-deleted", false, "include soft-deleted expenses")
	cmd.Flags().BoolVar(&f.decryptSearch, "decrypt-search", false, "decrypt notes in memory so keyword search can read them")
	cmd.Flags().StringVar(&f.sort, "sort", "", "order: date_desc, date_asc, amount_desc, amount_asc")
}

func (f *filterFlags) build() (query.Filter, error) {
	out := query.Filter{
		Category:       f.category,
		Keyword:        f.keyword,
		IncludeDeleted: f.includeDeleted,
		DecryptSearch:  f.decryptSearch,
	}
	var err error
	if out.Sort, err = core.ParseExpenseSort(f.sort); err != nil {
		return out, err
	}
	if f.from != "" {
		if out.From, err = core.ParseDate(f.from); err != nil {
			return out, err
		}
	}
	if f.to != "" {
		if out.To, err = core.ParseDate(f.to); err != nil {
			return out, err
		}
	}
	if f.min != "" {
		if out.Min, err = core.ParseAmount(f.min); err != nil {
			return out, err
		}
	}
	if f.max != "" {
		if out.Max, err = core.ParseAmount(f.max); err != nil {
			return out, err
		}
	}
	return out, nil
}

func newListCommand() *cobra.Command {
	var flags filterFlags
	var page int
	var perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.build()
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			f.Page = page
			f.PerPage = perPage
			if f.PerPage <= 0 {
				f.PerPage = a.cfg.PageSize
			}

			ctx, cancel := cli.RootContext()
			defer cancel()

			res, err := a.query.List(ctx, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Total == 0 {
				fmt.Fprintln(out, "No expenses found")
				return nil
			}
			renderExpenses(out, a.query, res.Items, f.IncludeDeleted)
			fmt.Fprintf(out, "Page %d/%d, %d expenses\n", res.Page, res.Pages, res.Total)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "rows per page (defaults to OUTLAY_PAGE_SIZE)")

	return cmd
}

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			cats, err := a.query.Categories(ctx)
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c.Name)
			}
			return nil
		},
	}
}
