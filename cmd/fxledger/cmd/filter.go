package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

// filterFlags are the trade selection flags shared by the query commands.
type filterFlags struct {
	from, to         string
	minHold, maxHold string
	pair, side       string
	account, label   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first business date, YYYYMMDD")
	cmd.Flags().StringVar(&f.to, "to", "", "last business date, YYYYMMDD")
	cmd.Flags().StringVar(&f.minHold, "min-hold", "", "minimum holding time, e.g. 5m")
	cmd.Flags().StringVar(&f.maxHold, "max-hold", "", "maximum holding time, e.g. 4h")
	cmd.Flags().StringVar(&f.pair, "pair", "", "currency pair, e.g. USD/JPY")
	cmd.Flags().StringVar(&f.side, "side", "", "long or short")
	cmd.Flags().StringVar(&f.account, "account", "", "account name")
	cmd.Flags().StringVar(&f.label, "label", "", "label name")
}

func (f *filterFlags) filter() (ledger.TradeFilter, error) {
	var tf ledger.TradeFilter
	var err error

	if f.from != "" {
		if tf.From, err = market.ParseBusinessDate(f.from); err != nil {
			return tf, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if tf.To, err = market.ParseBusinessDate(f.to); err != nil {
			return tf, fmt.Errorf("--to: %w", err)
		}
	}
	if f.minHold != "" {
		if tf.MinHold, err = time.ParseDuration(f.minHold); err != nil {
			return tf, fmt.Errorf("--min-hold: %w", err)
		}
	}
	if f.maxHold != "" {
		if tf.MaxHold, err = time.ParseDuration(f.maxHold); err != nil {
			return tf, fmt.Errorf("--max-hold: %w", err)
		}
	}
	if tf.MinHold > 0 && tf.MaxHold > 0 && tf.MinHold > tf.MaxHold {
		return tf, fmt.Errorf("--min-hold %s exceeds --max-hold %s", tf.MinHold, tf.MaxHold)
	}
	if !tf.From.IsZero() && !tf.To.IsZero() && tf.To.Before(tf.From) {
		return tf, fmt.Errorf("--to %s is before --from %s", tf.To, tf.From)
	}
	if f.side != "" {
		if tf.Side, err = market.ParseSide(f.side); err != nil {
			return tf, fmt.Errorf("--side: %w", err)
		}
	}
	tf.Pair = f.pair
	tf.Account = f.account
	tf.Label = f.label
	return tf, nil
}
