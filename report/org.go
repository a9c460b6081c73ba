package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

// FormatTradeOrg renders a trade as an Org-mode entry for a trading journal.
// Facts go in the PROPERTIES drawer; the memo becomes the Review section.
func FormatTradeOrg(t ledger.Trade, labels []string) string {
	meta := market.Lookup(t.Pair)
	prec := int(meta.PricePrecision())

	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Pair, t.Side, t.ID)
	if len(labels) > 0 {
		heading += "  :" + strings.Join(labels, ":") + ":"
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":ACCOUNT: %s\n", t.Account))
	b.WriteString(fmt.Sprintf(":PAIR: %s\n", t.Pair))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":LOT: %g\n", t.Lot))
	b.WriteString(fmt.Sprintf(":ENTRY_RATE: %.*f\n", prec, t.EntryRate))
	b.WriteString(fmt.Sprintf(":EXIT_RATE: %.*f\n", prec, t.ExitRate))
	b.WriteString(fmt.Sprintf(":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":EXIT_TIME: %s\n", t.ExitTime.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":BUSINESS_DATE: %s\n", t.BusinessDate()))
	b.WriteString(fmt.Sprintf(":PROFIT: %d\n", t.Profit))
	b.WriteString(fmt.Sprintf(":PROFIT_PIPS: %d\n", t.ProfitPips))
	if t.Swap != nil {
		b.WriteString(fmt.Sprintf(":SWAP: %d\n", *t.Swap))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Review\n")
	if t.Memo == "" {
		b.WriteString("- \n")
	}
	for _, line := range strings.Split(t.Memo, "\n") {
		if line != "" {
			b.WriteString("- " + line + "\n")
		}
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines. labels
// maps trade IDs to label names and may be nil.
func FormatTradesOrg(trades []ledger.Trade, labels map[ledger.TradeID][]string) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t, labels[t.ID]))
	}
	return b.String()
}
