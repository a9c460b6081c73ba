package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/fxledger/market"
)

type TradeID int64

func (id TradeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseTradeID parses the decimal form printed by String.
func ParseTradeID(s string) (TradeID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TradeID(n), nil
}

// Status is either Active or merged away into another trade. The zero value
// is Active.
type Status struct {
	mergedTo TradeID
}

func Active() Status { return Status{} }

func MergedAway(into TradeID) Status { return Status{mergedTo: into} }

func (s Status) IsActive() bool { return s.mergedTo == 0 }

// MergedTo returns the trade that superseded this one.
func (s Status) MergedTo() (TradeID, bool) {
	return s.mergedTo, s.mergedTo != 0
}

func (s Status) String() string {
	if s.IsActive() {
		return "active"
	}
	return "merged:" + s.mergedTo.String()
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	text := string(b)
	if text == "active" {
		*s = Active()
		return nil
	}
	into, ok := strings.CutPrefix(text, "merged:")
	if !ok {
		return fmt.Errorf("invalid trade status %q", text)
	}
	id, err := ParseTradeID(into)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid trade status %q", text)
	}
	*s = MergedAway(id)
	return nil
}

// Trade is a reconstructed round trip. Side is the side of the entry leg.
type Trade struct {
	ID         TradeID     `json:"id"`
	Pair       string      `json:"pair"`
	Side       market.Side `json:"side"`
	Lot        float64     `json:"lot"`
	EntryRate  float64     `json:"entry_rate"`
	ExitRate   float64     `json:"exit_rate"`
	EntryTime  time.Time   `json:"entry_time"`
	ExitTime   time.Time   `json:"exit_time"`
	Profit     int64       `json:"profit"`
	ProfitPips int64       `json:"profit_pips"`
	Swap       *int64      `json:"swap,omitempty"`
	Memo       string      `json:"memo,omitempty"`
	Status     Status      `json:"status"`
	Account    string      `json:"account"`

	// Seq tells apart trades that are otherwise identical within one import.
	Seq int `json:"-"`
}

// HoldingTime is the time between entry and exit.
func (t Trade) HoldingTime() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// BusinessDate is the trading day the trade is reported under.
func (t Trade) BusinessDate() market.BusinessDate {
	return market.BusinessDateOf(t.ExitTime)
}
