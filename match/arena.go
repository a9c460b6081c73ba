package match

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

// position is the unclosed residue of an open execution.
type position struct {
	seq       int
	side      market.Side
	rate      float64
	at        time.Time
	remaining decimal.Decimal
}

type bookKey struct {
	pair string
	side market.Side
}

// arena holds open positions per (pair, side) in insertion order. Fully
// closed positions are removed, so every position in a book has lot left.
type arena struct {
	seq   int
	books map[bookKey][]*position
}

func newArena() *arena {
	return &arena{books: make(map[bookKey][]*position)}
}

func (a *arena) open(r ledger.Record) {
	a.seq++
	k := bookKey{r.Pair, r.Side}
	a.books[k] = append(a.books[k], &position{
		seq:       a.seq,
		side:      r.Side,
		rate:      r.Rate,
		at:        r.Time,
		remaining: r.Lot,
	})
}

// book returns the positions a close of r's side would reduce.
func (a *arena) book(r ledger.Record) []*position {
	return a.books[bookKey{r.Pair, r.Side.Opposite()}]
}

// take consumes up to lot from p and drops p once empty.
func (a *arena) take(r ledger.Record, p *position, lot decimal.Decimal) decimal.Decimal {
	used := decimal.Min(lot, p.remaining)
	p.remaining = p.remaining.Sub(used)
	if p.remaining.IsZero() {
		k := bookKey{r.Pair, r.Side.Opposite()}
		book := a.books[k]
		for i, q := range book {
			if q == p {
				a.books[k] = append(book[:i:i], book[i+1:]...)
				break
			}
		}
	}
	return used
}

// openLots returns the total lot still open across all books.
func (a *arena) openLots() decimal.Decimal {
	var sum decimal.Decimal
	for _, book := range a.books {
		for _, p := range book {
			sum = sum.Add(p.remaining)
		}
	}
	return sum
}
