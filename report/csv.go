package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/fxledger/ledger"
)

var csvHeader = []string{
	"trade_id", "account", "pair", "side", "lot",
	"entry_rate", "exit_rate", "entry_time", "exit_time", "business_date",
	"profit", "profit_pips", "swap", "memo",
}

// WriteCSV writes trades with a header row.
func WriteCSV(w io.Writer, trades []ledger.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		swap := ""
		if t.Swap != nil {
			swap = strconv.FormatInt(*t.Swap, 10)
		}
		err := cw.Write([]string{
			t.ID.String(),
			t.Account,
			t.Pair,
			t.Side.String(),
			f(t.Lot),
			f(t.EntryRate),
			f(t.ExitRate),
			t.EntryTime.UTC().Format(time.RFC3339),
			t.ExitTime.UTC().Format(time.RFC3339),
			t.BusinessDate().String(),
			strconv.FormatInt(t.Profit, 10),
			strconv.FormatInt(t.ProfitPips, 10),
			swap,
			t.Memo,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
