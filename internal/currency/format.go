package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders amount in code for display, e.g. "R$55,80" or "$10.00".
// Codes unknown to the ISO table (crypto) are rendered as "0.12 XRP"
// with DisplayPlaces digits.
func Format(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(DisplayPlaces) + " " + code
	}
	f := *cur.Formatter()
	f.Fraction = DisplayPlaces
	return f.Format(Round(amount).Shift(DisplayPlaces).IntPart())
}
