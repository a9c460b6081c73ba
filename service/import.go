package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rustyeddy/fxledger/broker"
	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/match"
	"github.com/rustyeddy/fxledger/pkg/id"
)

// SkippedRow is a trade leg that was read but could not be matched.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// FileReport accounts for every data row of one input file.
type FileReport struct {
	Path       string       `json:"path"`
	Rows       int          `json:"rows"`
	Legs       int          `json:"legs"`
	Ignored    int          `json:"ignored"`
	Duplicates int          `json:"duplicates"`
	Skipped    []SkippedRow `json:"skipped,omitempty"`
}

// UnmatchedClose is the unallocated part of a close leg.
type UnmatchedClose struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Pair      string `json:"pair"`
	Side      string `json:"side"`
	Remaining string `json:"remaining"`
}

// ImportReport describes one ImportTrades call. On error it describes what
// had been done before the transaction was rolled back.
type ImportReport struct {
	ID        string           `json:"id"`
	Broker    broker.ID        `json:"broker"`
	Strategy  string           `json:"strategy"`
	Account   string           `json:"account"`
	Files     []FileReport     `json:"files"`
	Inserted  int              `json:"inserted"`
	Existing  int              `json:"existing"`
	Merged    int              `json:"merged"`
	Unmatched []UnmatchedClose `json:"unmatched,omitempty"`
}

// Records is the number of trade legs read across all files.
func (r ImportReport) Records() int {
	n := 0
	for _, f := range r.Files {
		n += f.Legs
	}
	return n
}

// ImportTrades reads broker exports from disk and imports them as one batch.
func (s *Service) ImportTrades(ctx context.Context, paths []string) (ImportReport, error) {
	tables := make([]broker.Table, 0, len(paths))
	for _, p := range paths {
		t, err := broker.ReadFile(p)
		if err != nil {
			return ImportReport{}, err
		}
		tables = append(tables, t)
	}
	return s.ImportTables(ctx, tables)
}

// ImportTables reconstructs trades from already tokenized exports. All tables
// must come from the same broker. Everything is written in one transaction:
// if any step fails nothing is stored.
func (s *Service) ImportTables(ctx context.Context, tables []broker.Table) (ImportReport, error) {
	var rep ImportReport

	bid, err := broker.DetectAll(tables)
	if err != nil {
		return rep, err
	}
	format, err := broker.Lookup(bid)
	if err != nil {
		return rep, err
	}
	bopts := s.brokerOptions(format)

	rep.ID = id.At(s.now())
	rep.Broker = bid
	rep.Strategy = bopts.Strategy
	rep.Account = bopts.Account

	records, err := s.normalize(format, bopts.Account, tables, &rep)
	if err != nil {
		return rep, err
	}

	strategy, err := match.New(bopts.Strategy, match.Options{
		Epsilon:     s.opts.Epsilon,
		OnUnmatched: bopts.OnUnmatched,
		Logger:      s.log.With(zap.String("import", rep.ID)),
	})
	if err != nil {
		return rep, err
	}

	err = s.store.Atomic(ctx, func(r Repository) error {
		return s.importBatch(ctx, r, strategy, records, &rep)
	})
	if err != nil {
		s.log.Error("import rolled back", zap.String("import", rep.ID), zap.Error(err))
		return rep, err
	}

	s.log.Info("import complete",
		zap.String("import", rep.ID),
		zap.String("broker", string(rep.Broker)),
		zap.String("strategy", rep.Strategy),
		zap.Int("records", rep.Records()),
		zap.Int("inserted", rep.Inserted),
		zap.Int("existing", rep.Existing),
		zap.Int("merged", rep.Merged),
		zap.Int("unmatched", len(rep.Unmatched)),
	)
	return rep, nil
}

func (s *Service) brokerOptions(f *broker.Format) BrokerOptions {
	o := s.opts.Brokers[f.ID]
	if o.Strategy == "" {
		o.Strategy = f.Strategy
	}
	if o.Account == "" {
		o.Account = string(f.ID)
	}
	return o
}

// normalize turns every table into records in chronological order.
func (s *Service) normalize(f *broker.Format, account string, tables []broker.Table, rep *ImportReport) ([]ledger.Record, error) {
	var records []ledger.Record
	for _, t := range tables {
		fr := FileReport{Path: t.Name, Rows: len(t.Rows)}

		for k := range t.Rows {
			i := k
			if f.NewestFirst {
				i = len(t.Rows) - 1 - k
			}
			line := t.Line(i)

			rec, ok, err := f.Normalize(t.Rows[i])
			if err != nil {
				rep.Files = append(rep.Files, fr)
				return nil, &broker.RowError{File: t.Name, Line: line, Err: err}
			}
			if !ok {
				fr.Ignored++
				continue
			}
			fr.Legs++

			rec.Account = account
			rec.File = t.Name
			rec.Line = line
			if !rec.Tradable() {
				reason := "zero lot or rate"
				fr.Skipped = append(fr.Skipped, SkippedRow{Line: line, Reason: reason})
				s.log.Warn("skipping row", zap.String("file", t.Name), zap.Int("line", line), zap.String("reason", reason))
				continue
			}
			records = append(records, rec)
		}
		rep.Files = append(rep.Files, fr)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})

	seen := map[string]int{}
	for i := range records {
		r := &records[i]
		key := fmt.Sprintf("%s|%s|%d|%d|%s|%g|%d", r.Account, r.Pair, r.Side, r.Leg, r.Lot, r.Rate, r.Time.Unix())
		r.Seq = seen[key]
		seen[key]++
	}
	return records, nil
}

func (s *Service) importBatch(ctx context.Context, r Repository, strategy match.Strategy, records []ledger.Record, rep *ImportReport) error {
	files := make(map[string]*FileReport, len(rep.Files))
	for i := range rep.Files {
		files[rep.Files[i].Path] = &rep.Files[i]
	}

	for _, rec := range records {
		err := r.InsertRecord(ctx, rec)
		if errors.Is(err, ledger.ErrDuplicate) {
			files[rec.File].Duplicates++
			continue
		}
		if err != nil {
			return err
		}
	}

	res, err := strategy.Match(records)
	if err != nil {
		return err
	}
	for _, u := range res.Unmatched {
		rep.Unmatched = append(rep.Unmatched, UnmatchedClose{
			File:      u.Record.File,
			Line:      u.Record.Line,
			Pair:      u.Record.Pair,
			Side:      u.Record.Side.String(),
			Remaining: u.Remaining.String(),
		})
	}

	seen := map[string]int{}
	var inserted []ledger.Trade
	for _, t := range res.Trades {
		key := fmt.Sprintf("%s|%s|%d|%g|%g|%g|%d|%d", t.Account, t.Pair, t.Side, t.Lot, t.EntryRate, t.ExitRate, t.EntryTime.Unix(), t.ExitTime.Unix())
		t.Seq = seen[key]
		seen[key]++

		tid, err := r.InsertTrade(ctx, t)
		if errors.Is(err, ledger.ErrDuplicate) {
			rep.Existing++
			continue
		}
		if err != nil {
			return err
		}
		t.ID = tid
		inserted = append(inserted, t)
	}
	rep.Inserted = len(inserted)

	if s.opts.AutoMerge {
		if err := s.autoMerge(ctx, r, inserted, rep); err != nil {
			return err
		}
	}

	return r.RecordImport(ctx, ledger.ImportBatch{
		ID:        rep.ID,
		Broker:    string(rep.Broker),
		Strategy:  rep.Strategy,
		Files:     fileNames(rep.Files),
		Records:   len(records),
		Inserted:  rep.Inserted,
		Merged:    rep.Merged,
		Unmatched: len(rep.Unmatched),
		CreatedAt: s.now().UTC(),
	})
}

// autoMerge folds trades the broker split into simultaneous pieces back into
// one. Only trades inserted by this import start a group; a group may pull in
// older active trades that fall inside the window.
func (s *Service) autoMerge(ctx context.Context, r Repository, inserted []ledger.Trade, rep *ImportReport) error {
	retired := map[ledger.TradeID]bool{}
	for _, t := range inserted {
		if retired[t.ID] {
			continue
		}
		similar, err := r.FindSimilarTrades(ctx, t, s.opts.MergeWindow)
		if err != nil {
			return err
		}
		if len(similar) < 2 {
			continue
		}

		mergedID, err := mergeInto(ctx, r, similar)
		if err != nil {
			return fmt.Errorf("auto merge trade %s: %w", t.ID, err)
		}
		for _, m := range similar {
			retired[m.ID] = true
		}
		rep.Merged += len(similar)
		s.log.Debug("merged split trade",
			zap.Int64("into", int64(mergedID)),
			zap.Int("pieces", len(similar)),
			zap.String("pair", t.Pair),
		)
	}
	return nil
}

func fileNames(files []FileReport) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// String renders the report for terminal output.
func (r ImportReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "import %s (%s, %s, account %s)\n", r.ID, r.Broker, r.Strategy, r.Account)
	for _, f := range r.Files {
		fmt.Fprintf(&b, "  %s: %d rows, %d legs, %d ignored, %d already stored, %d skipped\n",
			f.Path, f.Rows, f.Legs, f.Ignored, f.Duplicates, len(f.Skipped))
		for _, sk := range f.Skipped {
			fmt.Fprintf(&b, "    line %d: %s\n", sk.Line, sk.Reason)
		}
	}
	fmt.Fprintf(&b, "  trades: %d new, %d already stored, %d merged\n", r.Inserted, r.Existing, r.Merged)
	for _, u := range r.Unmatched {
		fmt.Fprintf(&b, "  unmatched: %s:%d %s %s %s lot\n", u.File, u.Line, u.Side, u.Pair, u.Remaining)
	}
	return b.String()
}
