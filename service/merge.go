package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rustyeddy/fxledger/ledger"
)

// MergeTrades combines the given trades into one new trade and retires the
// sources. Repeated ids count once. Merging trades that were already merged
// fails with ledger.ErrIncompatibleMerge and changes nothing.
func (s *Service) MergeTrades(ctx context.Context, ids []ledger.TradeID) (ledger.TradeID, error) {
	ids = dedupe(ids)

	var merged ledger.TradeID
	err := s.store.Atomic(ctx, func(r Repository) error {
		trades, err := r.TradesByIDs(ctx, ids)
		if err != nil {
			return err
		}
		merged, err = mergeInto(ctx, r, trades)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("merged trades", zap.Int64("into", int64(merged)), zap.Int("pieces", len(ids)))
	return merged, nil
}

// mergeInto stores the merge of trades, points each source at it and moves
// their labels over.
func mergeInto(ctx context.Context, r Repository, trades []ledger.Trade) (ledger.TradeID, error) {
	m, err := ledger.Merge(trades)
	if err != nil {
		return 0, err
	}
	newID, err := r.InsertTrade(ctx, m)
	if err != nil {
		return 0, err
	}

	ids := make([]ledger.TradeID, len(trades))
	for i, t := range trades {
		ids[i] = t.ID
	}
	if err := r.SoftDeleteAndRelink(ctx, ids, newID); err != nil {
		return 0, err
	}
	if err := r.MoveLabels(ctx, ids, newID); err != nil {
		return 0, err
	}
	return newID, nil
}

func dedupe(ids []ledger.TradeID) []ledger.TradeID {
	seen := make(map[ledger.TradeID]bool, len(ids))
	out := make([]ledger.TradeID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
