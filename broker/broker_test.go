package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

func header(id ID) []string {
	f, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return append([]string(nil), f.Header...)
}

func dmmRow(pair, side, leg, lot, rate, profit, swap, at string) []string {
	row := make([]string, 14)
	row[dmmPair] = pair
	row[dmmSide] = side
	row[dmmLeg] = leg
	row[dmmLot] = lot
	row[dmmRate] = rate
	row[dmmProfit] = profit
	row[dmmSwap] = swap
	row[dmmTime] = at
	return row
}

func gmoRow(kind, pair, side, units, rate, swap, profit, at string) []string {
	row := make([]string, 54)
	row[gmoTime] = at
	row[gmoKind] = kind
	row[gmoPair] = pair
	row[gmoSide] = side
	row[gmoUnits] = units
	row[gmoRate] = rate
	row[gmoSwap] = swap
	row[gmoProfit] = profit
	return row
}

func TestDetect(t *testing.T) {
	t.Parallel()

	padded := header(DMM)
	padded[0] = "  " + padded[0] + " "

	swapped := header(GMO)
	swapped[0], swapped[1] = swapped[1], swapped[0]

	tests := []struct {
		name    string
		header  []string
		want    ID
		wantErr error
	}{
		{"dmm", header(DMM), DMM, nil},
		{"gmo", header(GMO), GMO, nil},
		{"surrounding whitespace", padded, DMM, nil},
		{"reordered columns", swapped, "", ledger.ErrUnrecognizedFormat},
		{"truncated", header(DMM)[:13], "", ledger.ErrUnrecognizedFormat},
		{"extra column", append(header(DMM), "メモ"), "", ledger.ErrUnrecognizedFormat},
		{"empty", nil, "", ledger.ErrUnrecognizedFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Detect(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectAll(t *testing.T) {
	t.Parallel()

	dmmA := Table{Name: "a.csv", Header: header(DMM)}
	dmmB := Table{Name: "b.csv", Header: header(DMM)}
	gmo := Table{Name: "c.csv", Header: header(GMO)}
	bad := Table{Name: "d.csv", Header: []string{"date", "pair"}}

	id, err := DetectAll([]Table{dmmA, dmmB})
	require.NoError(t, err)
	assert.Equal(t, DMM, id)

	_, err = DetectAll([]Table{dmmA, gmo})
	assert.ErrorIs(t, err, ledger.ErrMixedAccountFormats)

	_, err = DetectAll([]Table{dmmA, bad})
	assert.ErrorIs(t, err, ledger.ErrUnrecognizedFormat)
	assert.Contains(t, err.Error(), "d.csv")

	_, err = DetectAll(nil)
	assert.ErrorIs(t, err, ledger.ErrUnrecognizedFormat)
}

func TestNormalizeDMM(t *testing.T) {
	t.Parallel()

	f, err := Lookup(DMM)
	require.NoError(t, err)
	assert.True(t, f.NewestFirst)
	assert.Equal(t, "lifo", f.Strategy)

	rec, ok, err := f.Normalize(dmmRow("USD/JPY", "売", "決済", "1.5", "150.500", "7,500", "(120)", "2024/05/01 09:30:00"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "USD_JPY", rec.Pair)
	assert.Equal(t, market.Short, rec.Side)
	assert.Equal(t, ledger.Close, rec.Leg)
	assert.Equal(t, "1.5", rec.Lot.String())
	assert.InDelta(t, 150.5, rec.Rate, 1e-12)
	require.NotNil(t, rec.Profit)
	assert.Equal(t, int64(7500), *rec.Profit)
	require.NotNil(t, rec.Swap)
	assert.Equal(t, int64(-120), *rec.Swap)
	// 09:30 JST is 00:30 UTC.
	assert.True(t, rec.Time.Equal(time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC)), rec.Time)

	rec, ok, err = f.Normalize(dmmRow("USD/JPY", "買", "新規", "1", "150.000", "", "", "2024/05/01 09:00:00"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledger.Open, rec.Leg)
	assert.Nil(t, rec.Profit)
	assert.Nil(t, rec.Swap)

	_, ok, err = f.Normalize(dmmRow("USD/JPY", "買", "入金", "1", "150", "", "", "2024/05/01 09:00:00"))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = f.Normalize(dmmRow("USD/JPY", "?", "新規", "1", "150", "", "", "2024/05/01 09:00:00"))
	assert.ErrorIs(t, err, ledger.ErrMalformedRow)

	_, _, err = f.Normalize(dmmRow("USD/JPY", "買", "新規", "1", "150", "", "", "yesterday"))
	assert.ErrorIs(t, err, ledger.ErrMalformedRow)

	_, _, err = f.Normalize([]string{"USD/JPY", "買"})
	assert.ErrorIs(t, err, ledger.ErrMalformedRow)
}

func TestNormalizeGMO(t *testing.T) {
	t.Parallel()

	f, err := Lookup(GMO)
	require.NoError(t, err)
	assert.False(t, f.NewestFirst)
	assert.Equal(t, "tolerance", f.Strategy)

	rec, ok, err := f.Normalize(gmoRow("FXネオ決済", "EUR/USD", "買", "25,000", "1.08320", "－15", "3,250", "2024/01/15 23:10:05"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EUR_USD", rec.Pair)
	assert.Equal(t, market.Long, rec.Side)
	assert.Equal(t, ledger.Close, rec.Leg)
	assert.Equal(t, "2.5", rec.Lot.String())
	assert.InDelta(t, 1.0832, rec.Rate, 1e-12)
	assert.Equal(t, int64(3250), rec.ProfitValue())
	assert.Equal(t, int64(-15), rec.SwapValue())
	assert.True(t, rec.Time.Equal(time.Date(2024, 1, 15, 14, 10, 5, 0, time.UTC)), rec.Time)

	_, ok, err = f.Normalize(gmoRow("現物買", "7203", "買", "100", "2500", "", "", "2024/01/15 10:00:00"))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1234", 1234, true},
		{" 1,234 ", 1234, true},
		{"¥1,234", 1234, true},
		{"￥-1,234", -1234, true},
		{`\500`, 500, true},
		{"＋300", 300, true},
		{"－300", -300, true},
		{"(1,200)", -1200, true},
		{"1 200", 1200, true},
		{"", 0, false},
		{"-", 0, false},
		{"12.5", 0, false},
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10000", ParseDecimal("10,000").String())
	assert.Equal(t, "0.3", ParseDecimal(" 0.3 ").String())
	assert.True(t, ParseDecimal("abc").IsZero())
	assert.True(t, ParseDecimal("").IsZero())
}
