package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

type queries struct {
	db dbtx
}

func (q *queries) InsertRecord(ctx context.Context, r ledger.Record) error {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO records
		(account, pair, side, leg, lot, rate, profit, swap, conversion_rate, executed_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		r.Account, r.Pair, int(r.Side), int(r.Leg), r.Lot.String(), r.Rate,
		nullInt(r.Profit), nullInt(r.Swap), r.ConversionRate, r.Time.Unix(), r.Seq,
	)
	if err != nil {
		return persistence("insert record", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %s: %w", r, ledger.ErrDuplicate)
	}
	return nil
}

func (q *queries) InsertTrade(ctx context.Context, t ledger.Trade) (ledger.TradeID, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO trades
		(account, pair, side, lot, entry_rate, exit_rate, entry_time, exit_time,
		 profit, profit_pips, swap, memo, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		t.Account, t.Pair, int(t.Side), t.Lot, t.EntryRate, t.ExitRate,
		t.EntryTime.Unix(), t.ExitTime.Unix(),
		t.Profit, t.ProfitPips, nullInt(t.Swap), t.Memo, t.Seq,
	)
	if err != nil {
		return 0, persistence("insert trade", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("trade %s %s %s: %w", t.Pair, t.Side, t.ExitTime.Format(time.RFC3339), ledger.ErrDuplicate)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, persistence("insert trade", err)
	}
	return ledger.TradeID(id), nil
}

const tradeColumns = `
	t.id, t.account, t.pair, t.side, t.lot, t.entry_rate, t.exit_rate,
	t.entry_time, t.exit_time, t.profit, t.profit_pips, t.swap, t.memo,
	t.merged_to, t.seq`

func scanTrade(row interface{ Scan(...any) error }) (ledger.Trade, error) {
	var (
		t              ledger.Trade
		side           int
		entry, exit    int64
		swap, mergedTo sql.NullInt64
	)
	err := row.Scan(
		&t.ID, &t.Account, &t.Pair, &side, &t.Lot, &t.EntryRate, &t.ExitRate,
		&entry, &exit, &t.Profit, &t.ProfitPips, &swap, &t.Memo,
		&mergedTo, &t.Seq,
	)
	if err != nil {
		return ledger.Trade{}, err
	}
	t.Side = market.Side(side)
	t.EntryTime = time.Unix(entry, 0).UTC()
	t.ExitTime = time.Unix(exit, 0).UTC()
	if swap.Valid {
		t.Swap = ledger.Int64(swap.Int64)
	}
	if mergedTo.Valid {
		t.Status = ledger.MergedAway(ledger.TradeID(mergedTo.Int64))
	}
	return t, nil
}

func (q *queries) listTrades(ctx context.Context, op, query string, args ...any) ([]ledger.Trade, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence(op, err)
	}
	defer rows.Close()

	var out []ledger.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, persistence(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(op, err)
	}
	return out, nil
}

func (q *queries) FindSimilarTrades(ctx context.Context, t ledger.Trade, window time.Duration) ([]ledger.Trade, error) {
	w := int64(window / time.Second)
	return q.listTrades(ctx, "find similar trades", `
		SELECT `+tradeColumns+`
		FROM trades t
		WHERE t.is_deleted = 0
		  AND t.account = ? AND t.pair = ? AND t.side = ?
		  AND t.entry_time BETWEEN ? AND ?
		  AND t.exit_time BETWEEN ? AND ?
		ORDER BY t.entry_time, t.id`,
		t.Account, t.Pair, int(t.Side),
		t.EntryTime.Unix()-w, t.EntryTime.Unix()+w,
		t.ExitTime.Unix()-w, t.ExitTime.Unix()+w,
	)
}

func (q *queries) SoftDeleteAndRelink(ctx context.Context, ids []ledger.TradeID, mergedTo ledger.TradeID) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]any{int64(mergedTo)}, idArgs(ids)...)
	res, err := q.db.ExecContext(ctx, `
		UPDATE trades SET is_deleted = 1, merged_to = ?
		WHERE is_deleted = 0 AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return persistence("soft delete trades", err)
	}
	if n, _ := res.RowsAffected(); n != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d trades were active", ledger.ErrIncompatibleMerge, n, len(ids))
	}
	return nil
}

// TradesByIDs returns trades in the order of ids, merged ones included.
func (q *queries) TradesByIDs(ctx context.Context, ids []ledger.TradeID) ([]ledger.Trade, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := q.listTrades(ctx, "trades by id", `
		SELECT `+tradeColumns+`
		FROM trades t
		WHERE t.id IN (`+placeholders(len(ids))+`)`, idArgs(ids)...)
	if err != nil {
		return nil, err
	}

	byID := make(map[ledger.TradeID]ledger.Trade, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]ledger.Trade, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("trade %s: %w", id, ledger.ErrNotFound)
		}
		out = append(out, t)
	}
	return out, nil
}

// QueryTrades returns active trades matching f ordered by exit time.
func (q *queries) QueryTrades(ctx context.Context, f ledger.TradeFilter) ([]ledger.Trade, error) {
	where := []string{"t.is_deleted = 0"}
	var args []any

	start, end := f.ExitRange()
	if !start.IsZero() {
		where = append(where, "t.exit_time >= ?")
		args = append(args, start.Unix())
	}
	if !end.IsZero() {
		where = append(where, "t.exit_time < ?")
		args = append(args, end.Unix())
	}
	if f.MinHold > 0 {
		where = append(where, "t.exit_time - t.entry_time >= ?")
		args = append(args, int64(f.MinHold/time.Second))
	}
	if f.MaxHold > 0 {
		where = append(where, "t.exit_time - t.entry_time <= ?")
		args = append(args, int64(f.MaxHold/time.Second))
	}
	if f.Pair != "" {
		where = append(where, "t.pair = ?")
		args = append(args, market.Canonical(f.Pair))
	}
	if f.Side != 0 {
		where = append(where, "t.side = ?")
		args = append(args, int(f.Side))
	}
	if f.Account != "" {
		where = append(where, "t.account = ?")
		args = append(args, f.Account)
	}
	if f.Label != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM trade_labels tl JOIN labels l ON l.id = tl.label_id
			WHERE tl.trade_id = t.id AND l.name = ?)`)
		args = append(args, f.Label)
	}

	return q.listTrades(ctx, "query trades", `
		SELECT `+tradeColumns+`
		FROM trades t
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY t.exit_time, t.id`, args...)
}

func (q *queries) UpdateMemo(ctx context.Context, id ledger.TradeID, memo string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE trades SET memo = ? WHERE id = ? AND is_deleted = 0`, memo, int64(id))
	if err != nil {
		return persistence("update memo", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %s: %w", id, ledger.ErrNotFound)
	}
	return nil
}

// CreateLabel returns the label called name, creating it if needed.
func (q *queries) CreateLabel(ctx context.Context, name string) (ledger.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Label{}, fmt.Errorf("label name is required")
	}
	if _, err := q.db.ExecContext(ctx, `INSERT OR IGNORE INTO labels (name) VALUES (?)`, name); err != nil {
		return ledger.Label{}, persistence("create label", err)
	}
	l := ledger.Label{Name: name}
	if err := q.db.QueryRowContext(ctx, `SELECT id FROM labels WHERE name = ?`, name).Scan(&l.ID); err != nil {
		return ledger.Label{}, persistence("create label", err)
	}
	return l, nil
}

func (q *queries) Labels(ctx context.Context) ([]ledger.Label, error) {
	return q.listLabels(ctx, "labels", `SELECT id, name FROM labels ORDER BY id`)
}

func (q *queries) LabelsForTrade(ctx context.Context, trade ledger.TradeID) ([]ledger.Label, error) {
	return q.listLabels(ctx, "labels for trade", `
		SELECT l.id, l.name
		FROM labels l JOIN trade_labels tl ON tl.label_id = l.id
		WHERE tl.trade_id = ?
		ORDER BY l.id`, int64(trade))
}

func (q *queries) listLabels(ctx context.Context, op, query string, args ...any) ([]ledger.Label, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence(op, err)
	}
	defer rows.Close()

	var out []ledger.Label
	for rows.Next() {
		var l ledger.Label
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, persistence(op, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(op, err)
	}
	return out, nil
}

func (q *queries) AttachLabel(ctx context.Context, trade ledger.TradeID, label ledger.LabelID) error {
	if err := q.exists(ctx, `SELECT 1 FROM trades WHERE id = ? AND is_deleted = 0`, int64(trade)); err != nil {
		return fmt.Errorf("trade %s: %w", trade, err)
	}
	if err := q.exists(ctx, `SELECT 1 FROM labels WHERE id = ?`, int64(label)); err != nil {
		return fmt.Errorf("label %d: %w", label, err)
	}
	_, err := q.db.ExecContext(ctx, `INSERT OR IGNORE INTO trade_labels (trade_id, label_id) VALUES (?, ?)`, int64(trade), int64(label))
	if err != nil {
		return persistence("attach label", err)
	}
	return nil
}

func (q *queries) DetachLabel(ctx context.Context, trade ledger.TradeID, label ledger.LabelID) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM trade_labels WHERE trade_id = ? AND label_id = ?`, int64(trade), int64(label))
	if err != nil {
		return persistence("detach label", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("label %d on trade %s: %w", label, trade, ledger.ErrNotFound)
	}
	return nil
}

func (q *queries) MoveLabels(ctx context.Context, from []ledger.TradeID, to ledger.TradeID) error {
	if len(from) == 0 {
		return nil
	}
	args := append([]any{int64(to)}, idArgs(from)...)
	if _, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO trade_labels (trade_id, label_id)
		SELECT ?, label_id FROM trade_labels
		WHERE trade_id IN (`+placeholders(len(from))+`)`, args...); err != nil {
		return persistence("move labels", err)
	}
	if _, err := q.db.ExecContext(ctx, `
		DELETE FROM trade_labels WHERE trade_id IN (`+placeholders(len(from))+`)`, idArgs(from)...); err != nil {
		return persistence("move labels", err)
	}
	return nil
}

func (q *queries) UpsertDailyMemo(ctx context.Context, m ledger.DailyMemo) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO daily_memo (date, memo) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET memo = excluded.memo`, m.Date.Key(), m.Memo)
	if err != nil {
		return persistence("upsert daily memo", err)
	}
	return nil
}

func (q *queries) DailyMemo(ctx context.Context, d market.BusinessDate) (ledger.DailyMemo, error) {
	m := ledger.DailyMemo{Date: d}
	err := q.db.QueryRowContext(ctx, `SELECT memo FROM daily_memo WHERE date = ?`, d.Key()).Scan(&m.Memo)
	if err == sql.ErrNoRows {
		return m, fmt.Errorf("daily memo %s: %w", d, ledger.ErrNotFound)
	}
	if err != nil {
		return m, persistence("daily memo", err)
	}
	return m, nil
}

func (q *queries) RecordImport(ctx context.Context, b ledger.ImportBatch) error {
	files, err := json.Marshal(b.Files)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO imports (id, broker, strategy, files, records, inserted, merged, unmatched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Broker, b.Strategy, string(files), b.Records, b.Inserted, b.Merged, b.Unmatched, b.CreatedAt.Unix(),
	)
	if err != nil {
		return persistence("record import", err)
	}
	return nil
}

// Imports lists recorded import batches, newest first.
func (q *queries) Imports(ctx context.Context, limit int) ([]ledger.ImportBatch, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, broker, strategy, files, records, inserted, merged, unmatched, created_at
		FROM imports ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, persistence("imports", err)
	}
	defer rows.Close()

	var out []ledger.ImportBatch
	for rows.Next() {
		var (
			b       ledger.ImportBatch
			files   string
			created int64
		)
		if err := rows.Scan(&b.ID, &b.Broker, &b.Strategy, &files, &b.Records, &b.Inserted, &b.Merged, &b.Unmatched, &created); err != nil {
			return nil, persistence("imports", err)
		}
		if err := json.Unmarshal([]byte(files), &b.Files); err != nil {
			return nil, persistence("imports", err)
		}
		b.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("imports", err)
	}
	return out, nil
}

func (q *queries) exists(ctx context.Context, query string, args ...any) error {
	var one int
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return ledger.ErrNotFound
	}
	if err != nil {
		return persistence("lookup", err)
	}
	return nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []ledger.TradeID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
