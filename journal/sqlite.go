package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/fxledger/ledger"
)

// dbtx is the part of *sql.DB and *sql.Tx the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLite is the trade journal. Outside Atomic every call is its own
// statement; inside Atomic all calls share one transaction.
type SQLite struct {
	*queries

	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (creating if needed) the journal at path and brings its
// schema up to date. ":memory:" is accepted for throwaway journals.
func NewSQLite(path string) (*SQLite, error) {
	dsn := "file::memory:?_foreign_keys=on"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create journal directory %s: %w", dir, err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal %s: %w", path, err)
	}

	return &SQLite{queries: &queries{db: db}, db: db}, nil
}

// Atomic runs fn inside one transaction. The transaction commits only if fn
// returns nil; otherwise every write fn made is rolled back.
func (j *SQLite) Atomic(ctx context.Context, fn func(ledger.Repository) error) (err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = persistence("commit", cerr)
		}
	}()

	return fn(&queries{db: tx})
}

// SchemaVersion reports how many migrations have been applied.
func (j *SQLite) SchemaVersion(ctx context.Context) (int, error) {
	return schemaVersion(ctx, j.db)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ledger.ErrPersistence, err)
}
