// Package match pairs open and close executions into round-trip trades.
package match

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

const (
	LIFO      = "lifo"
	FIFO      = "fifo"
	Tolerance = "tolerance"
)

// DefaultEpsilon is the rate tolerance used when Options.Epsilon is unset.
const DefaultEpsilon = 1e-5

// UnmatchedPolicy decides what happens to a close that finds no position.
type UnmatchedPolicy string

const (
	Skip UnmatchedPolicy = "skip"
	Fail UnmatchedPolicy = "fail"
)

func ParsePolicy(s string) (UnmatchedPolicy, error) {
	switch p := UnmatchedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", Skip, Fail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown unmatched policy %q (want skip or fail)", s)
	}
}

type Options struct {
	Epsilon     float64
	OnUnmatched UnmatchedPolicy
	Logger      *zap.Logger
}

// Unmatched is the part of a close that no open position absorbed.
type Unmatched struct {
	Record    ledger.Record
	Remaining decimal.Decimal
}

type Result struct {
	Trades    []ledger.Trade
	Unmatched []Unmatched
}

// Strategy reconstructs trades from records given in chronological order.
type Strategy interface {
	Name() string
	Match(records []ledger.Record) (Result, error)
}

// New returns the strategy registered under kind.
func New(kind string, opts Options) (Strategy, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	switch strings.ToLower(kind) {
	case LIFO:
		return &Stack{lifo: true, opts: withPolicy(opts, Skip)}, nil
	case FIFO:
		return &Stack{opts: withPolicy(opts, Skip)}, nil
	case Tolerance:
		if opts.Epsilon <= 0 {
			opts.Epsilon = DefaultEpsilon
		}
		return &ProfitTolerance{opts: withPolicy(opts, Fail)}, nil
	default:
		return nil, fmt.Errorf("unknown matching strategy %q", kind)
	}
}

func withPolicy(opts Options, def UnmatchedPolicy) Options {
	if opts.OnUnmatched == "" {
		opts.OnUnmatched = def
	}
	return opts
}

// UnmatchedError reports a close that could not be allocated under the fail
// policy.
type UnmatchedError struct {
	Record    ledger.Record
	Remaining decimal.Decimal
}

func (e *UnmatchedError) Error() string {
	loc := ""
	if e.Record.File != "" {
		loc = fmt.Sprintf("%s:%d: ", e.Record.File, e.Record.Line)
	}
	return fmt.Sprintf("%s%v: %s lot unallocated for %s", loc, ledger.ErrNoMatchingPosition, e.Remaining, e.Record)
}

func (e *UnmatchedError) Unwrap() error { return ledger.ErrNoMatchingPosition }

// unmatched applies the policy to an unallocated close residue.
func unmatched(opts Options, res *Result, r ledger.Record, remaining decimal.Decimal) error {
	if opts.OnUnmatched == Fail {
		return &UnmatchedError{Record: r, Remaining: remaining}
	}
	opts.Logger.Warn("close without matching position",
		zap.String("file", r.File),
		zap.Int("line", r.Line),
		zap.String("pair", r.Pair),
		zap.Stringer("side", r.Side),
		zap.String("remaining", remaining.String()),
	)
	res.Unmatched = append(res.Unmatched, Unmatched{Record: r, Remaining: remaining})
	return nil
}

type piece struct {
	pos *position
	lot decimal.Decimal
}

// settle turns the pieces of one close into trades. Profit and swap are shared
// by lot; the last piece takes the rounding remainder so the pieces add up to
// what the broker reported.
func settle(c ledger.Record, pieces []piece) []ledger.Trade {
	if len(pieces) == 0 {
		return nil
	}
	var total decimal.Decimal
	for _, p := range pieces {
		total = total.Add(p.lot)
	}

	meta := market.Lookup(c.Pair)
	profit := split(c.ProfitValue(), pieces, total)
	var swap []int64
	if c.Swap != nil {
		swap = split(*c.Swap, pieces, total)
	}

	trades := make([]ledger.Trade, 0, len(pieces))
	for i, p := range pieces {
		t := ledger.Trade{
			Pair:       c.Pair,
			Side:       p.pos.side,
			Lot:        p.lot.InexactFloat64(),
			EntryRate:  p.pos.rate,
			ExitRate:   c.Rate,
			EntryTime:  p.pos.at,
			ExitTime:   c.Time,
			Profit:     profit[i],
			ProfitPips: meta.Pips(p.pos.side, p.pos.rate, c.Rate),
			Status:     ledger.Active(),
			Account:    c.Account,
		}
		if swap != nil {
			t.Swap = ledger.Int64(swap[i])
		}
		trades = append(trades, t)
	}
	return trades
}

func split(amount int64, pieces []piece, total decimal.Decimal) []int64 {
	out := make([]int64, len(pieces))
	if total.IsZero() {
		return out
	}
	a := decimal.NewFromInt(amount)
	var used int64
	for i, p := range pieces {
		if i == len(pieces)-1 {
			out[i] = amount - used
			break
		}
		out[i] = a.Mul(p.lot).Div(total).IntPart()
		used += out[i]
	}
	return out
}
