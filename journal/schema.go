// journal/schema.go
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// migrations are applied in order; the number applied is kept in
// meta.schema_version. Never edit a released entry, append a new one.
var migrations = []string{
	// 1: executions, trades, labels and daily memos
	`
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account TEXT NOT NULL,
	pair TEXT NOT NULL,
	side INTEGER NOT NULL,
	leg INTEGER NOT NULL,
	lot TEXT NOT NULL,
	rate REAL NOT NULL,
	profit INTEGER,
	swap INTEGER,
	conversion_rate REAL NOT NULL DEFAULT 0,
	executed_at INTEGER NOT NULL,
	seq INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_records_unique
	ON records(account, pair, side, leg, lot, rate, executed_at, seq);

CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account TEXT NOT NULL,
	pair TEXT NOT NULL,
	side INTEGER NOT NULL,
	lot REAL NOT NULL,
	entry_rate REAL NOT NULL,
	exit_rate REAL NOT NULL,
	entry_time INTEGER NOT NULL,
	exit_time INTEGER NOT NULL,
	profit INTEGER NOT NULL,
	profit_pips INTEGER NOT NULL,
	swap INTEGER,
	memo TEXT NOT NULL DEFAULT '',
	is_deleted INTEGER NOT NULL DEFAULT 0,
	merged_to INTEGER REFERENCES trades(id),
	seq INTEGER NOT NULL DEFAULT 0,
	CHECK ((is_deleted = 0 AND merged_to IS NULL) OR (is_deleted = 1 AND merged_to IS NOT NULL)),
	CHECK (exit_time >= entry_time)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_unique
	ON trades(account, pair, side, lot, entry_rate, exit_rate, entry_time, exit_time, seq);
CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(is_deleted, exit_time);

CREATE TABLE IF NOT EXISTS labels (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS trade_labels (
	trade_id INTEGER NOT NULL REFERENCES trades(id),
	label_id INTEGER NOT NULL REFERENCES labels(id),
	PRIMARY KEY (trade_id, label_id)
);

CREATE TABLE IF NOT EXISTS daily_memo (
	date TEXT PRIMARY KEY,
	memo TEXT NOT NULL
);
`,
	// 2: import batches
	`
CREATE TABLE IF NOT EXISTS imports (
	id TEXT PRIMARY KEY,
	broker TEXT NOT NULL,
	strategy TEXT NOT NULL,
	files TEXT NOT NULL,
	records INTEGER NOT NULL,
	inserted INTEGER NOT NULL,
	merged INTEGER NOT NULL,
	unmatched INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`,
}

const metaSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, metaSchema); err != nil {
		return err
	}
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO meta (key, value) VALUES ('schema_version', ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}
