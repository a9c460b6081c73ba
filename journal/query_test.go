package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

func TestFindSimilarTrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	at := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)

	a := testTrade(at, time.Hour)
	b := testTrade(at.Add(time.Second), time.Hour)
	b.EntryRate = 150.01
	far := testTrade(at.Add(time.Minute), time.Hour)
	other := testTrade(at, time.Hour)
	other.Pair = "EUR_JPY"
	short := testTrade(at, time.Hour)
	short.Side = market.Short

	ids := map[string]ledger.TradeID{}
	for name, tr := range map[string]ledger.Trade{"a": a, "b": b, "far": far, "other": other, "short": short} {
		id, err := j.InsertTrade(ctx, tr)
		require.NoError(t, err)
		ids[name] = id
	}

	similar, err := j.FindSimilarTrades(ctx, a, time.Second)
	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, ids["a"], similar[0].ID)
	assert.Equal(t, ids["b"], similar[1].ID)

	require.NoError(t, j.SoftDeleteAndRelink(ctx, []ledger.TradeID{ids["a"]}, ids["b"]))

	similar, err = j.FindSimilarTrades(ctx, a, time.Second)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, ids["b"], similar[0].ID)

	got, err := j.TradesByIDs(ctx, []ledger.TradeID{ids["a"]})
	require.NoError(t, err)
	into, merged := got[0].Status.MergedTo()
	assert.True(t, merged)
	assert.Equal(t, ids["b"], into)

	err = j.SoftDeleteAndRelink(ctx, []ledger.TradeID{ids["a"]}, ids["far"])
	assert.ErrorIs(t, err, ledger.ErrIncompatibleMerge)
}

func TestTradesByIDsNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	_, err := j.TradesByIDs(context.Background(), []ledger.TradeID{42})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestQueryTradesFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	// 2024-01-02 21:59:59Z is 16:59:59 in New York, business date 20240102.
	// 22:00:00Z is the close and belongs to 20240103.
	before := testTrade(time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC), 59*time.Minute+59*time.Second)
	after := testTrade(time.Date(2024, 1, 2, 21, 50, 0, 0, time.UTC), 10*time.Minute)
	after.Pair = "EUR_USD"
	after.Side = market.Short

	beforeID, err := j.InsertTrade(ctx, before)
	require.NoError(t, err)
	afterID, err := j.InsertTrade(ctx, after)
	require.NoError(t, err)

	label, err := j.CreateLabel(ctx, "breakout")
	require.NoError(t, err)
	require.NoError(t, j.AttachLabel(ctx, afterID, label.ID))

	d0102, _ := market.ParseBusinessDate("20240102")
	d0103, _ := market.ParseBusinessDate("20240103")

	tests := []struct {
		name   string
		filter ledger.TradeFilter
		want   []ledger.TradeID
	}{
		{"all", ledger.TradeFilter{}, []ledger.TradeID{beforeID, afterID}},
		{"first day", ledger.TradeFilter{From: d0102, To: d0102}, []ledger.TradeID{beforeID}},
		{"second day", ledger.TradeFilter{From: d0103, To: d0103}, []ledger.TradeID{afterID}},
		{"min hold", ledger.TradeFilter{MinHold: 30 * time.Minute}, []ledger.TradeID{beforeID}},
		{"max hold", ledger.TradeFilter{MaxHold: 10 * time.Minute}, []ledger.TradeID{afterID}},
		{"pair", ledger.TradeFilter{Pair: "eur/usd"}, []ledger.TradeID{afterID}},
		{"side", ledger.TradeFilter{Side: market.Long}, []ledger.TradeID{beforeID}},
		{"label", ledger.TradeFilter{Label: "breakout"}, []ledger.TradeID{afterID}},
		{"account", ledger.TradeFilter{Account: "gmo"}, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.QueryTrades(ctx, tt.filter)
			require.NoError(t, err)

			var ids []ledger.TradeID
			for _, tr := range got {
				ids = append(ids, tr.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestUpdateMemo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	id, err := j.InsertTrade(ctx, testTrade(time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), time.Hour))
	require.NoError(t, err)

	require.NoError(t, j.UpdateMemo(ctx, id, "chased the move"))
	got, err := j.TradesByIDs(ctx, []ledger.TradeID{id})
	require.NoError(t, err)
	assert.Equal(t, "chased the move", got[0].Memo)

	assert.ErrorIs(t, j.UpdateMemo(ctx, id+100, "x"), ledger.ErrNotFound)
}

func TestLabels(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	at := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	a, err := j.InsertTrade(ctx, testTrade(at, time.Hour))
	require.NoError(t, err)
	b, err := j.InsertTrade(ctx, testTrade(at.Add(time.Minute), time.Hour))
	require.NoError(t, err)

	scalp, err := j.CreateLabel(ctx, "scalp")
	require.NoError(t, err)
	again, err := j.CreateLabel(ctx, " scalp ")
	require.NoError(t, err)
	assert.Equal(t, scalp.ID, again.ID)

	news, err := j.CreateLabel(ctx, "news")
	require.NoError(t, err)

	_, err = j.CreateLabel(ctx, "  ")
	assert.Error(t, err)

	require.NoError(t, j.AttachLabel(ctx, a, scalp.ID))
	require.NoError(t, j.AttachLabel(ctx, a, scalp.ID))
	require.NoError(t, j.AttachLabel(ctx, b, news.ID))
	assert.ErrorIs(t, j.AttachLabel(ctx, 999, scalp.ID), ledger.ErrNotFound)
	assert.ErrorIs(t, j.AttachLabel(ctx, a, 999), ledger.ErrNotFound)

	labels, err := j.LabelsForTrade(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Label{scalp}, labels)

	all, err := j.Labels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Label{scalp, news}, all)

	require.NoError(t, j.MoveLabels(ctx, []ledger.TradeID{a}, b))
	labels, err = j.LabelsForTrade(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Label{scalp, news}, labels)
	labels, err = j.LabelsForTrade(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, labels)

	require.NoError(t, j.DetachLabel(ctx, b, news.ID))
	assert.ErrorIs(t, j.DetachLabel(ctx, b, news.ID), ledger.ErrNotFound)
}

func TestDailyMemo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	d, err := market.ParseBusinessDate("20240315")
	require.NoError(t, err)

	_, err = j.DailyMemo(ctx, d)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, j.UpsertDailyMemo(ctx, ledger.DailyMemo{Date: d, Memo: "FOMC"}))
	require.NoError(t, j.UpsertDailyMemo(ctx, ledger.DailyMemo{Date: d, Memo: "FOMC, stayed flat"}))

	m, err := j.DailyMemo(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "FOMC, stayed flat", m.Memo)
	assert.Equal(t, d, m.Date)
}

func TestRecordImport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	first := ledger.ImportBatch{
		ID: "01HX0000000000000000000001", Broker: "dmm", Strategy: "lifo",
		Files: []string{"a.csv", "b.csv"}, Records: 10, Inserted: 5, Merged: 1,
		CreatedAt: time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC),
	}
	second := first
	second.ID = "01HX0000000000000000000002"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)

	require.NoError(t, j.RecordImport(ctx, first))
	require.NoError(t, j.RecordImport(ctx, second))
	assert.ErrorIs(t, j.RecordImport(ctx, first), ledger.ErrPersistence)

	got, err := j.Imports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, []string{"a.csv", "b.csv"}, got[1].Files)
	assert.True(t, got[1].CreatedAt.Equal(first.CreatedAt))
}
