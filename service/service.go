// Package service ties the reconciliation pipeline to the trade journal.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/fxledger/broker"
	"github.com/rustyeddy/fxledger/config"
	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
	"github.com/rustyeddy/fxledger/match"
	"github.com/rustyeddy/fxledger/report"
)

type Repository = ledger.Repository

// Store is a Repository that can run a group of calls as one transaction.
type Store interface {
	Repository
	Atomic(ctx context.Context, fn func(Repository) error) error
}

// BrokerOptions overrides the matching defaults of one broker.
type BrokerOptions struct {
	Strategy    string
	OnUnmatched match.UnmatchedPolicy
	Account     string
}

type Options struct {
	AutoMerge   bool
	MergeWindow time.Duration
	Epsilon     float64
	Brokers     map[broker.ID]BrokerOptions
}

// OptionsFromConfig translates the import and matching sections of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	window, err := cfg.Import.Window()
	if err != nil {
		return Options{}, fmt.Errorf("merge window: %w", err)
	}
	opts := Options{
		AutoMerge:   cfg.Import.AutoMerge,
		MergeWindow: window,
		Epsilon:     cfg.Matching.Epsilon,
		Brokers:     map[broker.ID]BrokerOptions{},
	}
	for name, b := range cfg.Brokers {
		policy, err := match.ParsePolicy(b.OnUnmatched)
		if err != nil {
			return Options{}, fmt.Errorf("broker %s: %w", name, err)
		}
		opts.Brokers[broker.ID(name)] = BrokerOptions{
			Strategy:    strings.ToLower(b.Strategy),
			OnUnmatched: policy,
			Account:     b.Account,
		}
	}
	return opts, nil
}

type Service struct {
	store Store
	opts  Options
	log   *zap.Logger
	now   func() time.Time
}

func New(store Store, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MergeWindow <= 0 {
		opts.MergeWindow = time.Second
	}
	return &Service{store: store, opts: opts, log: log, now: time.Now}
}

// Trades returns the active trades matching f, oldest exit first.
func (s *Service) Trades(ctx context.Context, f ledger.TradeFilter) ([]ledger.Trade, error) {
	return s.store.QueryTrades(ctx, f)
}

// DailySummaries summarises every active trade per business date.
func (s *Service) DailySummaries(ctx context.Context) ([]report.DailySummary, error) {
	trades, err := s.store.QueryTrades(ctx, ledger.TradeFilter{})
	if err != nil {
		return nil, err
	}
	return report.Daily(trades), nil
}

func (s *Service) FilteredSummary(ctx context.Context, f ledger.TradeFilter) (report.Summary, error) {
	trades, err := s.store.QueryTrades(ctx, f)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(trades), nil
}

func (s *Service) UpdateMemo(ctx context.Context, id ledger.TradeID, memo string) error {
	return s.store.UpdateMemo(ctx, id, memo)
}

func (s *Service) CreateLabel(ctx context.Context, name string) (ledger.Label, error) {
	return s.store.CreateLabel(ctx, name)
}

func (s *Service) Labels(ctx context.Context) ([]ledger.Label, error) {
	return s.store.Labels(ctx)
}

// AttachLabel tags a trade, creating the label on first use.
func (s *Service) AttachLabel(ctx context.Context, id ledger.TradeID, name string) error {
	return s.store.Atomic(ctx, func(r Repository) error {
		l, err := r.CreateLabel(ctx, name)
		if err != nil {
			return err
		}
		return r.AttachLabel(ctx, id, l.ID)
	})
}

func (s *Service) DetachLabel(ctx context.Context, id ledger.TradeID, name string) error {
	l, err := s.labelByName(ctx, name)
	if err != nil {
		return err
	}
	return s.store.DetachLabel(ctx, id, l.ID)
}

func (s *Service) labelByName(ctx context.Context, name string) (ledger.Label, error) {
	labels, err := s.store.Labels(ctx)
	if err != nil {
		return ledger.Label{}, err
	}
	name = strings.TrimSpace(name)
	for _, l := range labels {
		if l.Name == name {
			return l, nil
		}
	}
	return ledger.Label{}, fmt.Errorf("label %q: %w", name, ledger.ErrNotFound)
}

// TradeLabels returns label names per trade for the given trades.
func (s *Service) TradeLabels(ctx context.Context, trades []ledger.Trade) (map[ledger.TradeID][]string, error) {
	out := make(map[ledger.TradeID][]string, len(trades))
	for _, t := range trades {
		labels, err := s.store.LabelsForTrade(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range labels {
			out[t.ID] = append(out[t.ID], l.Name)
		}
	}
	return out, nil
}

// LabelSummaries summarises the trades matching f under each label.
func (s *Service) LabelSummaries(ctx context.Context, f ledger.TradeFilter) ([]report.LabelSummary, error) {
	labels, err := s.store.Labels(ctx)
	if err != nil {
		return nil, err
	}
	byLabel := make(map[ledger.LabelID][]ledger.Trade, len(labels))
	for _, l := range labels {
		lf := f
		lf.Label = l.Name
		trades, err := s.store.QueryTrades(ctx, lf)
		if err != nil {
			return nil, err
		}
		byLabel[l.ID] = trades
	}
	return report.ByLabel(labels, byLabel), nil
}

func (s *Service) SetDailyMemo(ctx context.Context, d market.BusinessDate, memo string) error {
	return s.store.UpsertDailyMemo(ctx, ledger.DailyMemo{Date: d, Memo: memo})
}

func (s *Service) DailyMemo(ctx context.Context, d market.BusinessDate) (ledger.DailyMemo, error) {
	return s.store.DailyMemo(ctx, d)
}

// Imports lists the most recent import batches.
func (s *Service) Imports(ctx context.Context, limit int) ([]ledger.ImportBatch, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.Imports(ctx, limit)
}
