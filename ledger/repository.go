package ledger

import (
	"context"
	"time"

	"github.com/rustyeddy/fxledger/market"
)

// ImportBatch is the persisted outcome of one import invocation.
type ImportBatch struct {
	ID        string    `json:"id"`
	Broker    string    `json:"broker"`
	Strategy  string    `json:"strategy"`
	Files     []string  `json:"files"`
	Records   int       `json:"records"`
	Inserted  int       `json:"inserted"`
	Merged    int       `json:"merged"`
	Unmatched int       `json:"unmatched"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is what the reconciliation service needs from storage. Driver
// failures are wrapped with ErrPersistence. Read paths never return trades
// that were merged away, except TradesByIDs which returns them so callers can
// reject them.
type Repository interface {
	// InsertRecord stores a raw execution; ErrDuplicate if already stored.
	InsertRecord(ctx context.Context, r Record) error
	// InsertTrade stores a trade and returns its ID; ErrDuplicate if an
	// identical trade is already stored.
	InsertTrade(ctx context.Context, t Trade) (TradeID, error)
	// FindSimilarTrades returns active trades of t's account, pair and side
	// whose entry and exit times are both within window of t's. t itself is
	// included when persisted.
	FindSimilarTrades(ctx context.Context, t Trade, window time.Duration) ([]Trade, error)
	// SoftDeleteAndRelink marks ids as merged into mergedTo.
	SoftDeleteAndRelink(ctx context.Context, ids []TradeID, mergedTo TradeID) error
	TradesByIDs(ctx context.Context, ids []TradeID) ([]Trade, error)
	QueryTrades(ctx context.Context, f TradeFilter) ([]Trade, error)
	UpdateMemo(ctx context.Context, id TradeID, memo string) error

	CreateLabel(ctx context.Context, name string) (Label, error)
	Labels(ctx context.Context) ([]Label, error)
	AttachLabel(ctx context.Context, trade TradeID, label LabelID) error
	DetachLabel(ctx context.Context, trade TradeID, label LabelID) error
	LabelsForTrade(ctx context.Context, trade TradeID) ([]Label, error)
	// MoveLabels re-attaches every label of from to the trade to.
	MoveLabels(ctx context.Context, from []TradeID, to TradeID) error

	UpsertDailyMemo(ctx context.Context, m DailyMemo) error
	DailyMemo(ctx context.Context, d market.BusinessDate) (DailyMemo, error)

	RecordImport(ctx context.Context, b ImportBatch) error
	// Imports lists recorded batches, newest first.
	Imports(ctx context.Context, limit int) ([]ImportBatch, error)
}
