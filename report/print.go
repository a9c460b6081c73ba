package report

import (
	"fmt"
	"io"
	"time"
)

func PrintSummary(w io.Writer, title string, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Count)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate()*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Profit")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:       %d\n", s.Profit)
	fmt.Fprintf(w, "Net Pips:      %d\n", s.ProfitPips)
	fmt.Fprintf(w, "Win Total:     %d (%d pips)\n", s.WinTotal, s.WinPipsTotal)
	fmt.Fprintf(w, "Loss Total:    %d (%d pips)\n", s.LossTotal, s.LossPipsTotal)
	fmt.Fprintf(w, "Avg P/L:       %.1f\n", s.AvgProfit)
	fmt.Fprintf(w, "Avg Win:       %.1f\n", s.AvgProfitWins)
	fmt.Fprintf(w, "Avg Loss:      %.1f\n", s.AvgProfitLosses)

	if s.LossTotal != 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", float64(s.WinTotal)/float64(-s.LossTotal))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Holding Time")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Average:       %s\n", secs(s.AvgHold))
	fmt.Fprintf(w, "Wins:          %s\n", secs(s.AvgHoldWins))
	fmt.Fprintf(w, "Losses:        %s\n", secs(s.AvgHoldLosses))

	fmt.Fprintln(w)
}

// PrintDaily writes one line per business date.
func PrintDaily(w io.Writer, days []DailySummary) {
	fmt.Fprintf(w, "%-10s  %6s  %4s  %4s  %10s  %8s\n", "date", "trades", "win", "loss", "profit", "pips")
	for _, d := range days {
		s := d.Summary
		fmt.Fprintf(w, "%-10s  %6d  %4d  %4d  %10d  %8d\n",
			d.Date, s.Count, s.Wins, s.Losses, s.Profit, s.ProfitPips)
	}
}

func secs(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(time.Second).String()
}
