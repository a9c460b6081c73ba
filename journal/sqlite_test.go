package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func testTrade(entry time.Time, hold time.Duration) ledger.Trade {
	return ledger.Trade{
		Pair:       "USD_JPY",
		Side:       market.Long,
		Lot:        1,
		EntryRate:  150.00,
		ExitRate:   150.50,
		EntryTime:  entry,
		ExitTime:   entry.Add(hold),
		Profit:     5000,
		ProfitPips: 500,
		Account:    "dmm",
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	v, err := j.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, table := range []string{"records", "trades", "labels", "trade_labels", "daily_memo", "imports", "meta"} {
		assert.True(t, found[table], table)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	_, err = j.InsertTrade(ctx, testTrade(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), time.Hour))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	trades, err := j.QueryTrades(ctx, ledger.TradeFilter{})
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestSQLiteInMemory(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer j.Close()

	v, err := j.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestSQLiteDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	rec := ledger.Record{
		Pair:    "USD_JPY",
		Side:    market.Long,
		Leg:     ledger.Open,
		Lot:     decimal.RequireFromString("1.5"),
		Rate:    150.25,
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Account: "dmm",
	}
	require.NoError(t, j.InsertRecord(ctx, rec))
	assert.ErrorIs(t, j.InsertRecord(ctx, rec), ledger.ErrDuplicate)

	rec.Seq = 1
	assert.NoError(t, j.InsertRecord(ctx, rec), "a second identical execution in the same import is kept")

	tr := testTrade(rec.Time, time.Hour)
	_, err := j.InsertTrade(ctx, tr)
	require.NoError(t, err)
	_, err = j.InsertTrade(ctx, tr)
	assert.ErrorIs(t, err, ledger.ErrDuplicate)
}

func TestSQLiteRejectsInvertedTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	tr := testTrade(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), -time.Minute)
	ctx := context.Background()
	_, err := j.InsertTrade(ctx, tr)
	assert.ErrorIs(t, err, ledger.ErrPersistence)
	assert.NotErrorIs(t, err, ledger.ErrDuplicate)

	trades, err := j.QueryTrades(ctx, ledger.TradeFilter{})
	require.NoError(t, err)
	assert.Empty(t, trades)

	err = j.Atomic(ctx, func(r ledger.Repository) error {
		_, err := r.InsertTrade(ctx, tr)
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrPersistence, "a constraint failure aborts an import instead of counting as already stored")
}

func TestSQLiteAtomicRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	boom := errors.New("boom")

	err := j.Atomic(ctx, func(r ledger.Repository) error {
		if _, err := r.InsertTrade(ctx, testTrade(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), time.Hour)); err != nil {
			return err
		}
		if _, err := r.CreateLabel(ctx, "scalp"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	trades, err := j.QueryTrades(ctx, ledger.TradeFilter{})
	require.NoError(t, err)
	assert.Empty(t, trades)

	labels, err := j.Labels(ctx)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestSQLiteAtomicCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	var id ledger.TradeID
	err := j.Atomic(ctx, func(r ledger.Repository) error {
		var err error
		id, err = r.InsertTrade(ctx, testTrade(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), time.Hour))
		return err
	})
	require.NoError(t, err)

	got, err := j.TradesByIDs(ctx, []ledger.TradeID{id})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "USD_JPY", got[0].Pair)
	assert.Equal(t, market.Long, got[0].Side)
	assert.Equal(t, int64(500), got[0].ProfitPips)
	assert.Nil(t, got[0].Swap)
	assert.True(t, got[0].Status.IsActive())
}
