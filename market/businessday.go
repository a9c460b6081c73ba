package market

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// CloseHour is the New York wall-clock hour at which the FX trading day rolls
// over. In Tokyo this lands at 06:00 in northern summer and 07:00 in winter.
const CloseHour = 17

var newYork = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// NewYork returns the zone the business day is anchored to.
func NewYork() *time.Location { return newYork }

// BusinessDate is a trading day. It is only ever a grouping key; trades store
// instants, never business dates.
type BusinessDate struct {
	Year  int
	Month time.Month
	Day   int
}

// BusinessDateOf maps an instant to the trading day it belongs to: NY times at
// or after 17:00 belong to the next NY calendar date.
func BusinessDateOf(t time.Time) BusinessDate {
	ny := t.In(newYork)
	y, m, d := ny.Date()
	if ny.Hour() >= CloseHour {
		y, m, d = time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC).Date()
	}
	return BusinessDate{Year: y, Month: m, Day: d}
}

// ParseBusinessDate parses a YYYYMMDD key. Dashed dates are also accepted
// since that is what people type on the command line and in API queries.
func ParseBusinessDate(key string) (BusinessDate, error) {
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.Parse(layout, key); err == nil {
			y, m, d := t.Date()
			return BusinessDate{Year: y, Month: m, Day: d}, nil
		}
	}
	return BusinessDate{}, fmt.Errorf("invalid business date %q (want YYYYMMDD)", key)
}

// Range returns the half-open UTC interval [start, end) covered by the date:
// from 17:00 NY on the previous calendar day to 17:00 NY on the day itself.
func (d BusinessDate) Range() (start, end time.Time) {
	start = time.Date(d.Year, d.Month, d.Day-1, CloseHour, 0, 0, 0, newYork).UTC()
	end = time.Date(d.Year, d.Month, d.Day, CloseHour, 0, 0, 0, newYork).UTC()
	return start, end
}

func (d BusinessDate) Key() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

func (d BusinessDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d BusinessDate) Next() BusinessDate {
	y, m, dd := time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, time.UTC).Date()
	return BusinessDate{Year: y, Month: m, Day: dd}
}

func (d BusinessDate) Before(o BusinessDate) bool {
	return d.Key() < o.Key()
}

func (d BusinessDate) IsZero() bool {
	return d == BusinessDate{}
}

func (d BusinessDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *BusinessDate) UnmarshalText(b []byte) error {
	bd, err := ParseBusinessDate(string(b))
	if err != nil {
		return err
	}
	*d = bd
	return nil
}
