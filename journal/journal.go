// journal/journal.go

// Package journal persists executions, reconstructed trades, labels and
// daily memos in SQLite.
package journal

import (
	"github.com/rustyeddy/fxledger/ledger"
)

var (
	_ ledger.Repository = (*SQLite)(nil)
	_ ledger.Repository = (*queries)(nil)
)
