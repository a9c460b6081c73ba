package broker

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

var dmmFormat = &Format{
	ID:   DMM,
	Name: "DMM FX",
	Header: []string{
		"通貨ペア",
		"売買",
		"区分",
		"数量（Lot）",
		"約定レート",
		"建玉損益（円）",
		"スワップ",
		"決済損益（円）",
		"注文日時",
		"約定日時",
		"注文番号",
		"円転レート",
		"取引手数料",
		"建玉損益",
	},
	NewestFirst: true,
	Strategy:    "lifo",
	Location:    tokyo,
	normalize:   normalizeDMM,
}

const (
	dmmPair       = 0
	dmmSide       = 1
	dmmLeg        = 2
	dmmLot        = 3
	dmmRate       = 4
	dmmProfit     = 5
	dmmSwap       = 6
	dmmTime       = 9
	dmmConversion = 11
)

func normalizeDMM(f *Format, row []string) (ledger.Record, bool, error) {
	var leg ledger.Leg
	switch strings.TrimSpace(row[dmmLeg]) {
	case "新規":
		leg = ledger.Open
	case "決済":
		leg = ledger.Close
	default:
		return ledger.Record{}, false, nil
	}

	side, err := market.ParseSide(row[dmmSide])
	if err != nil {
		return ledger.Record{}, false, fmt.Errorf("%w: %v", ledger.ErrMalformedRow, err)
	}
	at, err := ParseTime(row[dmmTime], f.Location)
	if err != nil {
		return ledger.Record{}, false, fmt.Errorf("%w: execution time %q", ledger.ErrMalformedRow, row[dmmTime])
	}

	return ledger.Record{
		Pair:           market.Canonical(row[dmmPair]),
		Side:           side,
		Leg:            leg,
		Lot:            ParseDecimal(row[dmmLot]),
		Rate:           ParseDecimal(row[dmmRate]).InexactFloat64(),
		Profit:         parseOptional(row[dmmProfit]),
		Swap:           parseOptional(row[dmmSwap]),
		Time:           at,
		ConversionRate: ParseDecimal(row[dmmConversion]).InexactFloat64(),
	}, true, nil
}
