package ledger

import (
	"errors"
	"fmt"
	"strings"

	"expense-wallet/internal/currency"
	"expense-wallet/internal/models"

	"github.com/shopspring/decimal"
)

// Row is an expense as shown in the display currency.
type Row struct {
	models.Expense
	CurrencyName          string          `json:"currencyName"`
	ExchangeRate          decimal.Decimal `json:"exchangeRate"`
	ExchangedValue        decimal.Decimal `json:"exchangedValue"`
	ExchangedCurrency     string          `json:"exchangedCurrency"`
	ExchangedCurrencyName string          `json:"exchangedCurrencyName"`
}

// exchange returns the unrounded value of e in target, using the rates
// frozen into e.
func exchange(e models.Expense, target string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(e.Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: expense %d has invalid value %q", currency.ErrConversion, e.ID, e.Value)
	}
	v, err := currency.Exchange(amount, e.ExchangeRates, e.Currency, target)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expense %d: %w", e.ID, err)
	}
	return v, nil
}

// DisplayRow computes the display values of e in target. Nothing is cached:
// every call recomputes from the stored value and frozen rates.
func DisplayRow(e models.Expense, target string) (Row, error) {
	row := Row{
		Expense:               e,
		CurrencyName:          currency.Name(e.ExchangeRates, e.Currency),
		ExchangedCurrency:     target,
		ExchangedCurrencyName: currency.Name(e.ExchangeRates, target),
	}
	cr, err := currency.CrossRate(e.ExchangeRates, e.Currency, target)
	if err != nil {
		return row, fmt.Errorf("expense %d: %w", e.ID, err)
	}
	v, err := exchange(e, target)
	if err != nil {
		return row, err
	}
	row.ExchangeRate = currency.Round(cr)
	row.ExchangedValue = currency.Round(v)
	return row, nil
}

// Rows computes the display rows of expenses in order. Rows that cannot be
// converted are still returned with zero values; their errors are joined.
func Rows(expenses []models.Expense, target string) ([]Row, error) {
	rows := make([]Row, 0, len(expenses))
	var errs []error
	for _, e := range expenses {
		row, err := DisplayRow(e, target)
		if err != nil {
			errs = append(errs, err)
		}
		rows = append(rows, row)
	}
	return rows, errors.Join(errs...)
}

// Total sums every expense converted into target with its own rates.
// Rows are summed unrounded and the sum is rounded once. Expenses that
// cannot be converted are left out of the sum and reported in the error.
func Total(expenses []models.Expense, target string) (decimal.Decimal, error) {
	sum := decimal.Zero
	var errs []error
	for _, e := range expenses {
		v, err := exchange(e, target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sum = sum.Add(v)
	}
	return currency.Round(sum), errors.Join(errs...)
}

// TagTotal summarizes the expenses of one tag in the display currency.
type TagTotal struct {
	Tag        models.Tag      `json:"tag"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// TagTotals groups expenses by tag, in models.Tags order, skipping tags
// without expenses.
func TagTotals(expenses []models.Expense, target string) ([]TagTotal, error) {
	sums := make(map[models.Tag]decimal.Decimal)
	counts := make(map[models.Tag]int)
	grand := decimal.Zero
	var errs []error
	for _, e := range expenses {
		v, err := exchange(e, target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sums[e.Tag] = sums[e.Tag].Add(v)
		counts[e.Tag]++
		grand = grand.Add(v)
	}

	hundred := decimal.NewFromInt(100)
	out := make([]TagTotal, 0, len(counts))
	for _, tag := range models.Tags {
		n, ok := counts[tag]
		if !ok {
			continue
		}
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = sums[tag].Mul(hundred).Div(grand).Round(1)
		}
		out = append(out, TagTotal{
			Tag:        tag,
			Total:      currency.Round(sums[tag]),
			Count:      n,
			Percentage: pct,
		})
	}
	return out, errors.Join(errs...)
}
