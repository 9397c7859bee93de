package view

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"lottery-odds/internal/domain/lottery"
)

// Table 標示檢視中的兩張表。
type Table string

const (
	TableDetail  Table = "detail"
	TableSummary Table = "summary"
)

// ParseTable 解析表名，不認得時回傳 ErrUnknownTable。
func ParseTable(s string) (Table, error) {
	switch Table(strings.ToLower(strings.TrimSpace(s))) {
	case TableDetail:
		return TableDetail, nil
	case TableSummary:
		return TableSummary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, s)
}

// Kind 決定欄位比較方式。
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

// Column 為表格欄位定義；排序、顯示與匯出都依此表驅動。
type Column[T any] struct {
	Key    string
	Header string
	Kind   Kind
	number func(T) float64
	text   func(T) string
	format func(Formatter, T) string
}

// Compare 依欄位型別比較兩列。
func (c Column[T]) Compare(a, b T) int {
	if c.Kind == KindNumeric {
		return cmp.Compare(c.number(a), c.number(b))
	}
	return strings.Compare(c.text(a), c.text(b))
}

// Display 回傳顯示字串。
func (c Column[T]) Display(f Formatter, v T) string {
	if c.format != nil {
		return c.format(f, v)
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.number(v), 'f', -1, 64)
	}
	return c.text(v)
}

// ReligiousLabel 為宗教社群專案的標示文字。
const ReligiousLabel = "צביון חרדי"

func religiousText(r lottery.ProjectRecord) string {
	if r.IsReligious {
		return ReligiousLabel
	}
	return ""
}

// DetailColumns 為專案明細表的欄位，順序即顯示順序。
var DetailColumns = []Column[lottery.ProjectRecord]{
	{
		Key: "lottery_number", Header: "מספר הגרלה", Kind: KindNumeric,
		number: func(r lottery.ProjectRecord) float64 { return float64(r.LotteryNumber) },
		format: func(_ Formatter, r lottery.ProjectRecord) string { return strconv.FormatInt(r.LotteryNumber, 10) },
	},
	{
		Key: "city", Header: "יישוב", Kind: KindText,
		text: func(r lottery.ProjectRecord) string { return r.City },
	},
	{
		Key: "contractor", Header: "קבלן", Kind: KindText,
		text: func(r lottery.ProjectRecord) string { return r.Contractor },
	},
	{
		Key: "units_offered", Header: "דירות בהגרלה", Kind: KindNumeric,
		number: func(r lottery.ProjectRecord) float64 { return float64(r.UnitsOffered) },
		format: func(f Formatter, r lottery.ProjectRecord) string { return f.Count(r.UnitsOffered) },
	},
	{
		Key: "subscribers", Header: "נרשמים", Kind: KindNumeric,
		number: func(r lottery.ProjectRecord) float64 { return float64(r.Subscribers) },
		format: func(f Formatter, r lottery.ProjectRecord) string { return f.Count(r.Subscribers) },
	},
	{
		Key: "price_per_unit", Header: "מחיר למטר", Kind: KindNumeric,
		number: func(r lottery.ProjectRecord) float64 { return r.PricePerUnit },
		format: func(f Formatter, r lottery.ProjectRecord) string { return f.Money(r.PricePerUnit) },
	},
	{
		Key: "grant_size", Header: "מענק", Kind: KindNumeric,
		number: func(r lottery.ProjectRecord) float64 { return r.GrantSize },
		format: func(f Formatter, r lottery.ProjectRecord) string { return f.Money(r.GrantSize) },
	},
	{
		Key: "win_probability", Header: "סיכויי זכייה", Kind: KindNumeric,
		number: func(r lottery.ProjectRecord) float64 { return r.WinProbability() },
		format: func(f Formatter, r lottery.ProjectRecord) string { return f.Percent(r.WinProbability()) },
	},
	{
		Key: "religious", Header: "צביון", Kind: KindText,
		text: religiousText,
	},
}

// SummaryColumns 為城市彙總表的欄位。
var SummaryColumns = []Column[lottery.CityAggregate]{
	{
		Key: "city", Header: "יישוב", Kind: KindText,
		text: func(a lottery.CityAggregate) string { return a.City },
	},
	{
		Key: "total_units", Header: "סה״כ דירות", Kind: KindNumeric,
		number: func(a lottery.CityAggregate) float64 { return float64(a.TotalUnits) },
		format: func(f Formatter, a lottery.CityAggregate) string { return f.Count(a.TotalUnits) },
	},
	{
		Key: "max_subscribers", Header: "מקסימום נרשמים", Kind: KindNumeric,
		number: func(a lottery.CityAggregate) float64 { return float64(a.MaxSubscribers) },
		format: func(f Formatter, a lottery.CityAggregate) string { return f.Count(a.MaxSubscribers) },
	},
	{
		Key: "avg_price_per_unit", Header: "מחיר ממוצע למטר", Kind: KindNumeric,
		number: func(a lottery.CityAggregate) float64 { return a.AvgPricePerUnit },
		format: func(f Formatter, a lottery.CityAggregate) string { return f.Money(a.AvgPricePerUnit) },
	},
	{
		Key: "city_win_probability", Header: "סיכויי זכייה", Kind: KindNumeric,
		number: func(a lottery.CityAggregate) float64 { return a.CityWinProbability },
		format: func(f Formatter, a lottery.CityAggregate) string { return f.Percent(a.CityWinProbability) },
	},
}

func findColumn[T any](cols []Column[T], key string) (Column[T], bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// columnHeader 回傳指定表格欄位的標題。
func columnHeader(table Table, key string) (string, bool) {
	switch table {
	case TableDetail:
		if c, ok := findColumn(DetailColumns, key); ok {
			return c.Header, true
		}
	case TableSummary:
		if c, ok := findColumn(SummaryColumns, key); ok {
			return c.Header, true
		}
	}
	return "", false
}
