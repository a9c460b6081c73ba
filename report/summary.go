// Package report reduces trade sets into performance summaries and renders
// them for the terminal, org-mode journals and spreadsheets.
package report

import (
	"sort"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

// Summary holds win/loss statistics over a trade set. Holding times are in
// seconds. Trades with zero profit count toward neither wins nor losses.
type Summary struct {
	Trades []ledger.Trade `json:"trades,omitempty"`

	Count  int `json:"count"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	Profit        int64 `json:"profit"`
	ProfitPips    int64 `json:"profit_pips"`
	WinTotal      int64 `json:"win_total"`
	LossTotal     int64 `json:"loss_total"`
	WinPipsTotal  int64 `json:"win_pips_total"`
	LossPipsTotal int64 `json:"loss_pips_total"`

	AvgProfit       float64 `json:"avg_profit"`
	AvgProfitWins   float64 `json:"avg_profit_wins"`
	AvgProfitLosses float64 `json:"avg_profit_losses"`

	AvgPips       float64 `json:"avg_pips"`
	AvgPipsWins   float64 `json:"avg_pips_wins"`
	AvgPipsLosses float64 `json:"avg_pips_losses"`

	AvgHold       float64 `json:"avg_hold_secs"`
	AvgHoldWins   float64 `json:"avg_hold_secs_wins"`
	AvgHoldLosses float64 `json:"avg_hold_secs_losses"`
}

// WinRate is wins over decided trades, 0 when there are none.
func (s Summary) WinRate() float64 {
	return ratio(float64(s.Wins), s.Wins+s.Losses)
}

// Summarize reduces trades. The input slice is kept on the summary.
func Summarize(trades []ledger.Trade) Summary {
	s := Summary{Trades: trades, Count: len(trades)}

	var hold, holdWins, holdLosses float64
	for _, t := range trades {
		h := t.HoldingTime().Seconds()
		s.Profit += t.Profit
		s.ProfitPips += t.ProfitPips
		hold += h

		switch {
		case t.Profit > 0:
			s.Wins++
			s.WinTotal += t.Profit
			s.WinPipsTotal += t.ProfitPips
			holdWins += h
		case t.Profit < 0:
			s.Losses++
			s.LossTotal += t.Profit
			s.LossPipsTotal += t.ProfitPips
			holdLosses += h
		}
	}

	s.AvgProfit = ratio(float64(s.Profit), s.Count)
	s.AvgProfitWins = ratio(float64(s.WinTotal), s.Wins)
	s.AvgProfitLosses = ratio(float64(s.LossTotal), s.Losses)

	s.AvgPips = ratio(float64(s.ProfitPips), s.Count)
	s.AvgPipsWins = ratio(float64(s.WinPipsTotal), s.Wins)
	s.AvgPipsLosses = ratio(float64(s.LossPipsTotal), s.Losses)

	s.AvgHold = ratio(hold, s.Count)
	s.AvgHoldWins = ratio(holdWins, s.Wins)
	s.AvgHoldLosses = ratio(holdLosses, s.Losses)
	return s
}

func ratio(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type DailySummary struct {
	Date    market.BusinessDate `json:"date"`
	Summary Summary             `json:"summary"`
}

// Daily groups trades by the business date of their exit and summarizes each
// day, oldest first.
func Daily(trades []ledger.Trade) []DailySummary {
	groups := make(map[market.BusinessDate][]ledger.Trade)
	for _, t := range trades {
		d := t.BusinessDate()
		groups[d] = append(groups[d], t)
	}

	out := make([]DailySummary, 0, len(groups))
	for d, ts := range groups {
		out = append(out, DailySummary{Date: d, Summary: Summarize(ts)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

type LabelSummary struct {
	Label   ledger.Label `json:"label"`
	Summary Summary      `json:"summary"`
}

// ByLabel summarizes the trades attached to each label, in label order.
func ByLabel(labels []ledger.Label, trades map[ledger.LabelID][]ledger.Trade) []LabelSummary {
	out := make([]LabelSummary, 0, len(labels))
	for _, l := range labels {
		out = append(out, LabelSummary{Label: l, Summary: Summarize(trades[l.ID])})
	}
	return out
}
