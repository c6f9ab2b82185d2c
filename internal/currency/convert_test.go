package currency

import (
	"testing"

	"expense-wallet/internal/models"
	"expense-wallet/internal/rates/ratestest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossRate(t *testing.T) {
	s := ratestest.Snapshot()

	tests := []struct {
		from, to string
		want     string
	}{
		{"USD", "BRL", "5.58"},
		{"BRL", "BRL", "1"},
		{"USD", "USD", "1"},
		{"EUR", "BRL", "6.5685"},
		{"BRL", "USD", "0.1792114695340502"},
		{"USD", "CNY", "6.7891470981871274"},
	}
	for _, tt := range tests {
		t.Run(tt.from+tt.to, func(t *testing.T) {
			got, err := CrossRate(s, tt.from, tt.to)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCrossRateErrors(t *testing.T) {
	s := ratestest.Snapshot()
	s = ratestest.WithAsk(s, "ARS", "0")
	s = ratestest.WithAsk(s, "GBP", "n/a")

	for _, pair := range [][2]string{
		{"XYZ", "BRL"},
		{"BRL", "XYZ"},
		{"ARS", "USD"},
		{"USD", "ARS"},
		{"GBP", "BRL"},
	} {
		_, err := CrossRate(s, pair[0], pair[1])
		assert.ErrorIs(t, err, ErrConversion, "%s -> %s", pair[0], pair[1])
	}

	_, err := CrossRate(nil, "USD", "BRL")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestConvert(t *testing.T) {
	s := ratestest.Snapshot()

	got, err := Convert(decimal.NewFromInt(10), s, "USD", "BRL")
	require.NoError(t, err)
	assert.Equal(t, "55.80", got.StringFixed(2))

	got, err = Convert(decimal.RequireFromString("100"), s, "CAD", "BRL")
	require.NoError(t, err)
	assert.Equal(t, "420.41", got.StringFixed(2))

	got, err = Convert(decimal.RequireFromString("100"), s, "CAD", "USD")
	require.NoError(t, err)
	assert.Equal(t, "75.34", got.StringFixed(2))

	_, err = Convert(decimal.NewFromInt(1), s, "USD", "XYZ")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestExchangeDoesNotRound(t *testing.T) {
	s := ratestest.WithAsk(ratestest.Snapshot(), "ARS", "0.001")

	got, err := Exchange(decimal.NewFromInt(5), s, "ARS", "BRL")
	require.NoError(t, err)
	assert.Equal(t, "0.005", got.String())
	assert.Equal(t, "0.01", Round(got).String())
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, "2.35", Round(decimal.RequireFromString("2.345")).StringFixed(2))
	assert.Equal(t, "2.34", Round(decimal.RequireFromString("2.3449")).StringFixed(2))
	assert.Equal(t, "0.13", Round(decimal.RequireFromString("0.125")).StringFixed(2))
}

func TestName(t *testing.T) {
	s := ratestest.Snapshot()
	assert.Equal(t, "Real", Name(s, "BRL"))
	assert.Equal(t, "Dólar Americano", Name(s, "USD"))
	assert.Equal(t, "Yuan Chinês", Name(s, "CNY"))
	assert.Equal(t, "XYZ", Name(s, "XYZ"))
	assert.Equal(t, "Plain", Name(models.RateSnapshot{"PLN": {Name: "Plain"}}, "PLN"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.50", Format(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "0.13 XYZ", Format(decimal.RequireFromString("0.125"), "XYZ"))
}
