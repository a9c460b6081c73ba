package broker

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/fxledger/ledger"
)

// ID names a broker export format.
type ID string

const (
	DMM ID = "dmm"
	GMO ID = "gmo"
)

// Format describes one broker's execution history export.
type Format struct {
	ID   ID
	Name string

	// Header is the exact, ordered header row the export carries.
	Header []string

	// NewestFirst is set when the export lists executions in reverse
	// chronological order.
	NewestFirst bool

	// Strategy is the default position matching strategy for the export.
	Strategy string

	// Location is the zone the export's timestamps are written in.
	Location *time.Location

	normalize func(f *Format, row []string) (ledger.Record, bool, error)
}

// Normalize converts one data row into a Record. ok is false for rows that are
// not FX executions and should be ignored.
func (f *Format) Normalize(row []string) (rec ledger.Record, ok bool, err error) {
	if len(row) < len(f.Header) {
		return ledger.Record{}, false, fmt.Errorf("%w: %d columns, want %d", ledger.ErrMalformedRow, len(row), len(f.Header))
	}
	return f.normalize(f, row)
}

func (f *Format) matches(header []string) bool {
	if len(header) != len(f.Header) {
		return false
	}
	for i, h := range header {
		if strings.TrimSpace(h) != f.Header[i] {
			return false
		}
	}
	return true
}

var tokyo = mustLoad("Asia/Tokyo")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

var formats = []*Format{dmmFormat, gmoFormat}

// Lookup returns the format registered under id.
func Lookup(id ID) (*Format, error) {
	for _, f := range formats {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown broker %q", ledger.ErrUnrecognizedFormat, id)
}

// Detect identifies a format by its header row. Every column must match in
// name and position.
func Detect(header []string) (ID, error) {
	for _, f := range formats {
		if f.matches(header) {
			return f.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %d header columns", ledger.ErrUnrecognizedFormat, len(header))
}

// DetectAll resolves the format of every table and requires them to agree.
func DetectAll(tables []Table) (ID, error) {
	var id ID
	for _, t := range tables {
		got, err := Detect(t.Header)
		if err != nil {
			return "", fmt.Errorf("%s: %w", t.Name, err)
		}
		if id != "" && got != id {
			return "", fmt.Errorf("%w: %s is %s, expected %s", ledger.ErrMixedAccountFormats, t.Name, got, id)
		}
		id = got
	}
	if id == "" {
		return "", fmt.Errorf("%w: no files", ledger.ErrUnrecognizedFormat)
	}
	return id, nil
}

// RowError locates a row that could not be normalized.
type RowError struct {
	File string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
