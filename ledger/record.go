package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxledger/market"
)

// Leg says whether an execution opened or closed exposure.
type Leg int

const (
	Open Leg = iota + 1
	Close
)

func (l Leg) String() string {
	switch l {
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}

// Record is one normalized execution row from a broker export.
type Record struct {
	Pair string
	Side market.Side
	Leg  Leg
	Lot  decimal.Decimal
	Rate float64

	// Profit and Swap are only reported on close legs, and not by every broker.
	Profit *int64
	Swap   *int64

	Time    time.Time
	Account string

	// ConversionRate converts quote currency into account currency. Zero
	// means the broker did not report one.
	ConversionRate float64

	File string
	Line int

	// Seq tells apart executions that are otherwise identical within one
	// import, so storage can deduplicate re-imports without dropping them.
	Seq int
}

// Tradable reports whether the record can take part in matching.
func (r Record) Tradable() bool {
	return r.Lot.IsPositive() && r.Rate > 0 && r.Side.Valid() && (r.Leg == Open || r.Leg == Close)
}

// Conversion returns the quote to account currency rate, defaulting to 1.
func (r Record) Conversion() float64 {
	if r.ConversionRate <= 0 {
		return 1
	}
	return r.ConversionRate
}

// ProfitValue returns the reported profit or zero.
func (r Record) ProfitValue() int64 {
	if r.Profit == nil {
		return 0
	}
	return *r.Profit
}

// SwapValue returns the reported swap or zero.
func (r Record) SwapValue() int64 {
	if r.Swap == nil {
		return 0
	}
	return *r.Swap
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s %s@%g %s", r.Leg, r.Side, r.Pair, r.Lot, r.Rate, r.Time.Format(time.RFC3339))
}

// Int64 is a helper for building optional profit and swap values.
func Int64(v int64) *int64 { return &v }
