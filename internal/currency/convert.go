// Package currency converts amounts between currencies using a rate snapshot.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"expense-wallet/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// Base is the currency every snapshot quote is expressed in.
	Base = "BRL"
	// BaseName is the display name of the base currency.
	BaseName = "Real"
	// DisplayPlaces is the number of decimal places shown to the user.
	DisplayPlaces = 2
)

// ErrConversion is returned when a snapshot cannot convert between two currencies.
var ErrConversion = errors.New("conversion error")

// rate returns the price of one unit of code in the base currency.
func rate(s models.RateSnapshot, code string) (decimal.Decimal, error) {
	if code == Base {
		return decimal.NewFromInt(1), nil
	}
	r, ok := s[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrConversion, code)
	}
	ask, err := decimal.NewFromString(strings.TrimSpace(r.Ask))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate %q for %s", ErrConversion, r.Ask, code)
	}
	if ask.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero rate for %s", ErrConversion, code)
	}
	return ask, nil
}

// CrossRate returns the factor converting one unit of from into to.
func CrossRate(s models.RateSnapshot, from, to string) (decimal.Decimal, error) {
	rf, err := rate(s, from)
	if err != nil {
		return decimal.Zero, err
	}
	rt, err := rate(s, to)
	if err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	return rf.Div(rt), nil
}

// Exchange converts amount from one currency into another without rounding.
func Exchange(amount decimal.Decimal, s models.RateSnapshot, from, to string) (decimal.Decimal, error) {
	cr, err := CrossRate(s, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(cr), nil
}

// Convert converts amount and rounds half-up to DisplayPlaces.
func Convert(amount decimal.Decimal, s models.RateSnapshot, from, to string) (decimal.Decimal, error) {
	v, err := Exchange(amount, s, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(v), nil
}

// Round rounds d half-up to DisplayPlaces.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// Name returns the display name of code according to s.
// Provider names look like "Dólar Americano/Real Brasileiro"; only the part
// before the slash is kept.
func Name(s models.RateSnapshot, code string) string {
	if code == Base {
		return BaseName
	}
	r, ok := s[code]
	if !ok || r.Name == "" {
		return code
	}
	name, _, _ := strings.Cut(r.Name, "/")
	return strings.TrimSpace(name)
}
