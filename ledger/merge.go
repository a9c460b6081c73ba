package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxledger/market"
)

// Validate checks that trades can be combined into one.
func Validate(trades []Trade) error {
	if len(trades) < 2 {
		return fmt.Errorf("%w: got %d", ErrInsufficientTrades, len(trades))
	}
	first := trades[0]
	for _, t := range trades {
		if into, merged := t.Status.MergedTo(); merged {
			return fmt.Errorf("%w: trade %s already merged into %s", ErrIncompatibleMerge, t.ID, into)
		}
		if t.Pair != first.Pair {
			return fmt.Errorf("%w: pair %s differs from %s", ErrIncompatibleMerge, t.Pair, first.Pair)
		}
		if t.Side != first.Side {
			return fmt.Errorf("%w: trade %s is %s, expected %s", ErrIncompatibleMerge, t.ID, t.Side, first.Side)
		}
	}
	return nil
}

// Merge folds split legs back into a single trade. The result has no ID and is
// Active; the caller persists it and retires the sources.
func Merge(trades []Trade) (Trade, error) {
	if err := Validate(trades); err != nil {
		return Trade{}, err
	}

	first := trades[0]
	meta := market.Lookup(first.Pair)
	n := decimal.NewFromInt(int64(len(trades)))

	var (
		lot, entrySum, exitSum decimal.Decimal
		entryUnix, exitUnix    int64
		profit, swap           int64
		haveSwap               bool
		memos                  []string
	)
	for _, t := range trades {
		lot = lot.Add(decimal.NewFromFloat(t.Lot))
		entrySum = entrySum.Add(decimal.NewFromFloat(t.EntryRate))
		exitSum = exitSum.Add(decimal.NewFromFloat(t.ExitRate))
		entryUnix += t.EntryTime.Unix()
		exitUnix += t.ExitTime.Unix()
		profit += t.Profit
		if t.Swap != nil {
			swap += *t.Swap
			haveSwap = true
		}
		if m := strings.TrimSpace(t.Memo); m != "" {
			memos = append(memos, m)
		}
	}

	// 3 decimals for JPY-quoted pairs, 5 for USD-quoted majors.
	entry := entrySum.Div(n).Round(meta.PricePrecision()).InexactFloat64()
	exit := exitSum.Div(n).Round(meta.PricePrecision()).InexactFloat64()

	merged := Trade{
		Pair:       first.Pair,
		Side:       first.Side,
		Lot:        lot.InexactFloat64(),
		EntryRate:  entry,
		ExitRate:   exit,
		EntryTime:  time.Unix(entryUnix/int64(len(trades)), 0).UTC(),
		ExitTime:   time.Unix(exitUnix/int64(len(trades)), 0).UTC(),
		Profit:     profit,
		ProfitPips: meta.Pips(first.Side, entry, exit),
		Memo:       strings.Join(memos, "\n"),
		Status:     Active(),
		Account:    first.Account,
	}
	if haveSwap {
		merged.Swap = Int64(swap)
	}
	return merged, nil
}
