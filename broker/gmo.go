package broker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxledger/ledger"
	"github.com/rustyeddy/fxledger/market"
)

var gmoFormat = &Format{
	ID:   GMO,
	Name: "GMO Click",
	Header: []string{
		"約定日時",
		"取引区分",
		"受渡日",
		"約定番号",
		"銘柄名",
		"銘柄コード",
		"限月",
		"コールプット区分",
		"権利行使価格",
		"権利行使価格通貨",
		"カバードワラント商品種別",
		"売買区分",
		"通貨",
		"受渡通貨",
		"市場",
		"口座",
		"信用区分",
		"約定数量",
		"約定単価",
		"コンバージョンレート",
		"手数料",
		"手数料消費税",
		"建単価",
		"新規手数料",
		"新規手数料消費税",
		"管理費",
		"名義書換料",
		"金利",
		"貸株料",
		"品貸料",
		"前日分値洗",
		"経過利子（円貨）",
		"経過利子（外貨）",
		"経過日数（外債）",
		"所得税（外債）",
		"地方税（外債）",
		"金利・価格調整額（CFD）",
		"配当金調整額（CFD）",
		"金利・価格調整額（くりっく株365）",
		"配当金調整額（くりっく株365）",
		"売建単価（くりっく365/くりっく株365）",
		"買建単価（くりっく365/くりっく株365）",
		"円貨スワップ損益",
		"外貨スワップ損益",
		"約定金額（円貨）",
		"約定金額（外貨）",
		"決済金額（円貨）",
		"決済金額（外貨）",
		"実現損益（円貨）",
		"実現損益（外貨）",
		"実現損益（円換算額）",
		"受渡金額（円貨）",
		"受渡金額（外貨）",
		"備考",
	},
	Strategy:  "tolerance",
	Location:  tokyo,
	normalize: normalizeGMO,
}

const (
	gmoTime       = 0
	gmoKind       = 1
	gmoPair       = 4
	gmoSide       = 11
	gmoUnits      = 17
	gmoRate       = 18
	gmoConversion = 19
	gmoSwap       = 42
	gmoProfit     = 46
)

var unitsPerLot = decimal.NewFromFloat(market.UnitsPerLot)

// normalizeGMO only keeps FX Neo executions; the same export also carries
// equities, CFDs and cash movements.
func normalizeGMO(f *Format, row []string) (ledger.Record, bool, error) {
	var leg ledger.Leg
	switch strings.TrimSpace(row[gmoKind]) {
	case "FXネオ新規":
		leg = ledger.Open
	case "FXネオ決済":
		leg = ledger.Close
	default:
		return ledger.Record{}, false, nil
	}

	side, err := market.ParseSide(row[gmoSide])
	if err != nil {
		return ledger.Record{}, false, fmt.Errorf("%w: %v", ledger.ErrMalformedRow, err)
	}
	at, err := ParseTime(row[gmoTime], f.Location)
	if err != nil {
		return ledger.Record{}, false, fmt.Errorf("%w: execution time %q", ledger.ErrMalformedRow, row[gmoTime])
	}

	return ledger.Record{
		Pair:           market.Canonical(row[gmoPair]),
		Side:           side,
		Leg:            leg,
		Lot:            ParseDecimal(row[gmoUnits]).Div(unitsPerLot),
		Rate:           ParseDecimal(row[gmoRate]).InexactFloat64(),
		Profit:         parseOptional(row[gmoProfit]),
		Swap:           parseOptional(row[gmoSwap]),
		Time:           at,
		ConversionRate: ParseDecimal(row[gmoConversion]).InexactFloat64(),
	}, true, nil
}
