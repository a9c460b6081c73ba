// market/instruments.go
package market

import (
	"math"
	"strings"
)

// UnitsPerLot is the contract size used by the Japanese retail FX brokers we
// import from: one lot is 10,000 units of the base currency.
const UnitsPerLot = 10_000.0

type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
	UnitsPerLot   float64
}

var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {Name: "EUR_USD", BaseCurrency: "EUR", QuoteCurrency: "USD", PipLocation: -4, UnitsPerLot: UnitsPerLot},
	"GBP_USD": {Name: "GBP_USD", BaseCurrency: "GBP", QuoteCurrency: "USD", PipLocation: -4, UnitsPerLot: UnitsPerLot},
	"AUD_USD": {Name: "AUD_USD", BaseCurrency: "AUD", QuoteCurrency: "USD", PipLocation: -4, UnitsPerLot: UnitsPerLot},
	"USD_JPY": {Name: "USD_JPY", BaseCurrency: "USD", QuoteCurrency: "JPY", PipLocation: -2, UnitsPerLot: UnitsPerLot},
	"EUR_JPY": {Name: "EUR_JPY", BaseCurrency: "EUR", QuoteCurrency: "JPY", PipLocation: -2, UnitsPerLot: UnitsPerLot},
	"GBP_JPY": {Name: "GBP_JPY", BaseCurrency: "GBP", QuoteCurrency: "JPY", PipLocation: -2, UnitsPerLot: UnitsPerLot},
	"AUD_JPY": {Name: "AUD_JPY", BaseCurrency: "AUD", QuoteCurrency: "JPY", PipLocation: -2, UnitsPerLot: UnitsPerLot},
}

// PricePrecision is the number of decimals a quote carries (one digit past the pip).
func (m InstrumentMeta) PricePrecision() int32 {
	return int32(-(m.PipLocation - 1))
}

// PipScale converts a price delta into integer pipettes: 1000 for JPY
// quoted pairs, 100000 for the majors.
func (m InstrumentMeta) PipScale() float64 {
	return math.Pow(10, float64(m.PricePrecision()))
}

// Pips returns the signed pipette distance between entry and exit for a
// position opened on side.
func (m InstrumentMeta) Pips(side Side, entry, exit float64) int64 {
	return int64(math.Round((exit - entry) * m.PipScale() * side.Direction()))
}

// Canonical turns broker spellings such as "USD/JPY", "usdjpy" or "USD_JPY"
// into the BASE_QUOTE form used as the instrument key.
func Canonical(pair string) string {
	p := strings.ToUpper(strings.TrimSpace(pair))
	p = strings.NewReplacer("/", "_", "-", "_", " ", "").Replace(p)
	if !strings.Contains(p, "_") && len(p) == 6 {
		p = p[:3] + "_" + p[3:]
	}
	return p
}

// Lookup returns the metadata for pair. Pairs missing from Instruments get
// metadata derived from the quote currency so unknown crosses still import.
func Lookup(pair string) InstrumentMeta {
	name := Canonical(pair)
	if meta, ok := Instruments[name]; ok {
		return meta
	}
	meta := InstrumentMeta{Name: name, PipLocation: -4, UnitsPerLot: UnitsPerLot}
	if base, quote, ok := strings.Cut(name, "_"); ok {
		meta.BaseCurrency, meta.QuoteCurrency = base, quote
	}
	if meta.QuoteCurrency == "JPY" {
		meta.PipLocation = -2
	}
	return meta
}
