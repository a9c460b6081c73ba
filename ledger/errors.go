package ledger

import "errors"

// Errors returned across the reconciliation pipeline. Callers match them with
// errors.Is; richer context is attached by wrapping.
var (
	// Import errors
	ErrUnrecognizedFormat  = errors.New("unrecognized broker export format")
	ErrMixedAccountFormats = errors.New("files in one import come from different broker formats")
	ErrMalformedRow        = errors.New("malformed row")
	ErrNoMatchingPosition  = errors.New("no open position matches close")

	// Merge errors
	ErrIncompatibleMerge  = errors.New("trades cannot be merged")
	ErrInsufficientTrades = errors.New("merge needs at least two trades")

	// Store errors
	ErrPersistence = errors.New("persistence failure")
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("already recorded")
)
