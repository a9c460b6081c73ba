package broker

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Table is a tokenized export file. Rows exclude the header.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	// Lines holds the 1-based source line of each row when known.
	Lines []int
}

// Line returns the source line of data row i.
func (t Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile loads a broker export from disk.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return Read(path, f)
}

// Read tokenizes an export. Domestic brokers write Shift-JIS, so input that is
// not valid UTF-8 is decoded from Shift-JIS first.
func Read(name string, r io.Reader) (Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", name, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		raw, err = japanese.ShiftJIS.NewDecoder().Bytes(raw)
		if err != nil {
			return Table{}, fmt.Errorf("decode %s: %w", name, err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	first, err := cr.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return Table{}, fmt.Errorf("parse %s: %w", name, err)
	}

	t := Table{Name: name, Header: make([]string, len(first))}
	for i, h := range first {
		t.Header[i] = strings.TrimSpace(h)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("parse %s: %w", name, err)
		}
		if blank(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, row)
		t.Lines = append(t.Lines, line)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
