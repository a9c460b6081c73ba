package broker

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var intNoise = strings.NewReplacer(
	`\`, "",
	",", "",
	"¥", "",
	"￥", "",
	" ", "",
	"　", "",
	"＋", "+",
	"－", "-",
)

// ParseInt reads a yen amount as printed by broker exports: thousands
// separators, currency marks, full-width signs and accounting parentheses
// for negatives are all accepted. ok is false for blank or unreadable cells.
func ParseInt(s string) (n int64, ok bool) {
	s = intNoise.Replace(strings.TrimSpace(s))
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		s = "-" + s[1:len(s)-1]
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseOptional is ParseInt returning nil for absent values.
func parseOptional(s string) *int64 {
	v, ok := ParseInt(s)
	if !ok {
		return nil
	}
	return &v
}

// ParseDecimal reads a lot size, unit count or rate. Unreadable cells are zero
// so the row is later reported as skipped instead of aborting the import.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.NewReplacer(",", "", " ", "", "　", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var timeLayouts = []string{
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/01/02 15:04",
}

// ParseTime parses a wall-clock timestamp in loc and returns it in UTC.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
