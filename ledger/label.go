package ledger

import "github.com/rustyeddy/fxledger/market"

type LabelID int64

// Label is a user tag that can be attached to any number of trades.
type Label struct {
	ID   LabelID `json:"id"`
	Name string  `json:"name"`
}

// DailyMemo is a free-text note for one business date.
type DailyMemo struct {
	Date market.BusinessDate `json:"date"`
	Memo string              `json:"memo"`
}
