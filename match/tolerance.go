package match

import (
	"math"
	"sort"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

// ProfitTolerance matches each close to the open position whose rate explains the
// reported profit. The broker does not link the legs, but profit, lot and
// exit rate pin down where the position was opened.
type ProfitTolerance struct {
	opts Options
}

func (s *ProfitTolerance) Name() string { return Tolerance }

// ExpectedEntry backs the entry rate out of a close's realised profit. The
// close direction is +1 for a buy (closing a short) and -1 for a sell.
func ExpectedEntry(r ledger.Record) float64 {
	meta := market.Lookup(r.Pair)
	notional := r.Lot.InexactFloat64() * meta.UnitsPerLot * r.Conversion()
	delta := float64(r.ProfitValue()-r.SwapValue()) / notional
	return r.Rate + delta*r.Side.Direction()
}

func (s *ProfitTolerance) Match(records []ledger.Record) (Result, error) {
	var res Result
	a := newArena()

	for _, r := range records {
		if !r.Tradable() {
			continue
		}
		if r.Leg == ledger.Open {
			a.open(r)
			continue
		}

		expected := ExpectedEntry(r)
		var candidates []*position
		for _, p := range a.book(r) {
			if math.Abs(p.rate-expected) < s.opts.Epsilon {
				candidates = append(candidates, p)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if !candidates[i].at.Equal(candidates[j].at) {
				return candidates[i].at.Before(candidates[j].at)
			}
			return candidates[i].seq < candidates[j].seq
		})

		var pieces []piece
		remaining := r.Lot
		for _, p := range candidates {
			if !remaining.IsPositive() {
				break
			}
			used := a.take(r, p, remaining)
			pieces = append(pieces, piece{pos: p, lot: used})
			remaining = remaining.Sub(used)
		}
		res.Trades = append(res.Trades, settle(r, pieces)...)

		if remaining.IsPositive() {
			if err := unmatched(s.opts, &res, r, remaining); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}
