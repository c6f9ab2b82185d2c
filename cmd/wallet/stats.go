package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"expense-wallet/internal/currency"
	"expense-wallet/internal/ledger"

	"github.com/spf13/cobra"
)

func statsCmd(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show spending per tag",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(_ *cobra.Command, _ []string) error {
			code := strings.ToUpper(strings.TrimSpace(target))
			if code == "" {
				code = currency.Base
			}
			s := a.store.State()
			totals, err := ledger.TagTotals(s.Expenses, code)
			if err != nil {
				a.logger.Warn("some expenses were left out", "error", err)
			}
			if len(totals) == 0 {
				fmt.Fprintln(a.stdout, "No expenses to summarize.")
				return nil
			}

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			for _, t := range totals {
				if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s%%\t\n",
					t.Tag, t.Count, currency.Format(t.Total, code), t.Percentage.StringFixed(1)); err != nil {
					return fmt.Errorf("failed to write tag row: %w", err)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			total, _ := ledger.Total(s.Expenses, code)
			fmt.Fprintf(a.stdout, "\nTotal: %s\n", currency.Format(total, code))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "currency", "", "currency to report in (default BRL)")
	return cmd
}
