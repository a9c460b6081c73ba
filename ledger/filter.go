package ledger

import (
	"time"

	"github.com/rustyeddy/fxledger/market"
)

// TradeFilter narrows a trade query. Zero fields do not constrain. From and To
// are inclusive business dates of the exit time; MinHold and MaxHold are
// inclusive bounds on holding time.
type TradeFilter struct {
	From    market.BusinessDate
	To      market.BusinessDate
	MinHold time.Duration
	MaxHold time.Duration
	Pair    string
	Side    market.Side
	Account string
	Label   string
}

// ExitRange converts From and To into a half-open UTC range on exit time.
// Unbounded ends come back as the zero time.
func (f TradeFilter) ExitRange() (start, end time.Time) {
	if !f.From.IsZero() {
		start, _ = f.From.Range()
	}
	if !f.To.IsZero() {
		_, end = f.To.Range()
	}
	return start, end
}
