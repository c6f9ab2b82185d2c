package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"expense-wallet/internal/currency"
	"expense-wallet/internal/ledger"
	"expense-wallet/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func currenciesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List the currencies expenses can be recorded in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes, err := a.store.LoadCurrencies(cmd.Context())
			if err != nil {
				return err
			}
			for _, code := range codes {
				fmt.Fprintln(a.stdout, code)
			}
			return nil
		},
	}
}

// draftFlags registers the expense form fields on cmd, defaulting to the
// values already in d.
func draftFlags(cmd *cobra.Command, d *models.Draft) {
	cmd.Flags().StringVar(&d.Value, "value", d.Value, "amount spent, e.g. 12.50")
	cmd.Flags().StringVar(&d.Currency, "currency", d.Currency, "currency code, e.g. USD")
	cmd.Flags().StringVar((*string)(&d.Method), "method", string(d.Method), "payment method (Money, Credit, Debit)")
	cmd.Flags().StringVar((*string)(&d.Tag), "tag", string(d.Tag), "category (Food, Leisure, Work, Transport, Health)")
	cmd.Flags().StringVar(&d.Description, "description", d.Description, "what the money was spent on")
}

// normalize accepts any letter case for the enumerated fields.
func normalize(d models.Draft) models.Draft {
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if m, err := models.ParseMethod(string(d.Method)); err == nil {
		d.Method = m
	}
	if t, err := models.ParseTag(string(d.Tag)); err == nil {
		d.Tag = t
	}
	return d
}

func addCmd(a *app) *cobra.Command {
	d := models.Draft{Method: models.MethodMoney, Tag: models.TagFood}
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Record an expense with the current exchange rates",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.store.LoadCurrencies(cmd.Context()); err != nil {
				return err
			}
			e, err := a.store.AddExpense(cmd.Context(), normalize(d))
			if err != nil {
				return err
			}
			row, err := ledger.DisplayRow(e, currency.Base)
			if err != nil {
				fmt.Fprintf(a.stdout, "Added expense %d: %s %s\n", e.ID, e.Value, e.Currency)
				return nil
			}
			fmt.Fprintf(a.stdout, "Added expense %d: %s %s (%s)\n",
				e.ID, e.Value, e.Currency, currency.Format(row.ExchangedValue, currency.Base))
			return nil
		},
	}
	draftFlags(cmd, &d)
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "Show every expense converted into the display currency",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code := strings.ToUpper(strings.TrimSpace(target)); code != "" && code != currency.Base {
				if _, err := a.store.LoadCurrencies(cmd.Context()); err != nil {
					return err
				}
				if _, err := a.store.Dispatch(ledger.SetDisplayCurrency{Code: code}); err != nil {
					return err
				}
			}
			s := a.store.State()
			if len(s.Expenses) == 0 {
				fmt.Fprintln(a.stdout, "No expenses yet. Use 'wallet add' to record one.")
				return nil
			}

			rows, convErr := ledger.Rows(s.Expenses, s.CurrencyToExchange)
			if err := writeRows(a, rows); err != nil {
				return err
			}
			total, _ := ledger.Total(s.Expenses, s.CurrencyToExchange)
			fmt.Fprintf(a.stdout, "\nTotal: %s\n", currency.Format(total, s.CurrencyToExchange))
			if convErr != nil {
				a.logger.Warn("some expenses could not be converted", "error", convErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "currency", "", "display currency (default BRL)")
	return cmd
}

func writeRows(a *app, rows []ledger.Row) error {
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	headerStyle := lipgloss.NewRenderer(a.stdout).NewStyle().Bold(true)
	header := []string{"ID", "Description", "Tag", "Method", "Value", "Currency", "Rate", "Converted", "Into"}
	for i, h := range header {
		header[i] = headerStyle.Render(h)
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range rows {
		rate, converted := "-", "-"
		if !r.ExchangeRate.IsZero() {
			rate = r.ExchangeRate.StringFixed(currency.DisplayPlaces)
			converted = currency.Format(r.ExchangedValue, r.ExchangedCurrency)
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Description, r.Tag, r.Method, r.Value, r.CurrencyName,
			rate, converted, r.ExchangedCurrencyName); err != nil {
			return fmt.Errorf("failed to write expense row: %w", err)
		}
	}
	return w.Flush()
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid expense id %q", ledger.ErrValidation, arg)
	}
	return id, nil
}

func editCmd(a *app) *cobra.Command {
	var patch models.Draft
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change an expense; its exchange rates are kept",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireLogin,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			old, ok := a.store.State().Expense(id)
			if !ok {
				return fmt.Errorf("%w: expense %d", ledger.ErrNotFound, id)
			}
			if _, err := a.store.LoadCurrencies(cmd.Context()); err != nil {
				return err
			}

			// Unset flags keep the stored values.
			d := old.Draft()
			f := cmd.Flags()
			if f.Changed("value") {
				d.Value = patch.Value
			}
			if f.Changed("currency") {
				d.Currency = patch.Currency
			}
			if f.Changed("method") {
				d.Method = patch.Method
			}
			if f.Changed("tag") {
				d.Tag = patch.Tag
			}
			if f.Changed("description") {
				d.Description = patch.Description
			}

			if _, err := a.store.Dispatch(ledger.BeginEdit{ID: id}); err != nil {
				return err
			}
			if _, err := a.store.Dispatch(ledger.SaveEdit{ID: id, Patch: normalize(d)}); err != nil {
				if _, cerr := a.store.Dispatch(ledger.CancelEdit{}); cerr != nil {
					a.logger.Error("failed to cancel edit", "error", cerr)
				}
				return err
			}
			fmt.Fprintf(a.stdout, "Updated expense %d\n", id)
			return nil
		},
	}
	draftFlags(cmd, &patch)
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Remove an expense",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireLogin,
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.store.Dispatch(ledger.DeleteExpense{ID: id}); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted expense %d\n", id)
			return nil
		},
	}
}
