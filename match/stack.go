package match

import (
	"github.com/rustyeddy/fxledger/ledger"
)

// Stack closes the most recent open position first (LIFO) or the oldest
// (FIFO), splitting positions and closes as lots require.
type Stack struct {
	lifo bool
	opts Options
}

func (s *Stack) Name() string {
	if s.lifo {
		return LIFO
	}
	return FIFO
}

func (s *Stack) Match(records []ledger.Record) (Result, error) {
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

		var pieces []piece
		remaining := r.Lot
		for remaining.IsPositive() {
			book := a.book(r)
			if len(book) == 0 {
				break
			}
			p := book[0]
			if s.lifo {
				p = book[len(book)-1]
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
