package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"USD/JPY", "USD_JPY"},
		{"usdjpy", "USD_JPY"},
		{" EUR_USD ", "EUR_USD"},
		{"gbp-jpy", "GBP_JPY"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.in), tt.in)
	}
}

func TestLookupDerivesUnknownPairs(t *testing.T) {
	t.Parallel()

	chf := Lookup("CHF/JPY")
	assert.Equal(t, "CHF_JPY", chf.Name)
	assert.Equal(t, -2, chf.PipLocation)
	assert.InDelta(t, 1000.0, chf.PipScale(), 1e-9)

	nzd := Lookup("NZD/USD")
	assert.Equal(t, int32(5), nzd.PricePrecision())
	assert.InDelta(t, 100000.0, nzd.PipScale(), 1e-9)
}

func TestPips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pair        string
		side        Side
		entry, exit float64
		want        int64
	}{
		{"usdjpy long win", "USD_JPY", Long, 150.00, 150.50, 500},
		{"usdjpy short loss", "USD_JPY", Short, 150.00, 150.50, -500},
		{"usdjpy short win", "USD_JPY", Short, 150.123, 150.100, 23},
		{"eurusd long win", "EUR_USD", Long, 1.08500, 1.08750, 250},
		{"flat", "EUR_USD", Long, 1.1, 1.1, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Lookup(tt.pair).Pips(tt.side, tt.entry, tt.exit))
		})
	}
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Side{"買": Long, "売": Short, "BUY": Long, "sell": Short} {
		got, err := ParseSide(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSide("hold")
	assert.Error(t, err)

	assert.Equal(t, Short, Long.Opposite())
	assert.Equal(t, "short", Short.String())
}
