package view

import (
	"lottery-odds/internal/application/aggregation"
	"lottery-odds/internal/application/normalize"
	"lottery-odds/internal/application/ranking"
	"lottery-odds/internal/domain/lottery"
)

// DetailRow 為明細表的一列。
type DetailRow struct {
	Record lottery.ProjectRecord
	Badge  lottery.RankBadge
	Cells  []string
}

// SummaryRow 為彙總表的一列。
type SummaryRow struct {
	Aggregate lottery.CityAggregate
	Badge     lottery.RankBadge
	Cells     []string
}

// View 為一次物化的結果。
type View struct {
	State State
	Chips []Chip
	// NoActiveLotteries 由上游回報；FilteredOut 代表有資料但被篩選排除。
	NoActiveLotteries bool
	FilteredOut       bool
	TotalRecords      int
	// FilteredUnits 為篩選後所有城市的戶數總和。
	FilteredUnits int64
	Detail            []DetailRow
	Summary           []SummaryRow
}

// NoActiveMessage 為沒有開放抽籤時的提示文字。
const NoActiveMessage = "אין הגרלות פעילות כרגע"

// Engine 將正規化結果與檢視狀態組合成可顯示的表格。
type Engine struct {
	formatter Formatter
}

func NewEngine(f Formatter) *Engine {
	return &Engine{formatter: f}
}

// Materialize 依序執行篩選、彙總、標記與排序；相同輸入必得相同輸出。
func (e *Engine) Materialize(base normalize.Result, st State) View {
	v := View{
		State:             st,
		Chips:             st.Chips(),
		NoActiveLotteries: base.NoActiveLotteries,
		TotalRecords:      len(base.Records),
	}
	if base.NoActiveLotteries {
		return v
	}

	filtered := st.Filters.Apply(base.Records)
	v.FilteredOut = len(base.Records) > 0 && len(filtered) == 0

	detailBadges := ranking.Annotate(filtered)
	v.Detail = make([]DetailRow, 0, len(filtered))
	for _, i := range sortOrder(filtered, DetailColumns, st.Detail) {
		v.Detail = append(v.Detail, DetailRow{
			Record: filtered[i],
			Badge:  detailBadges[i],
			Cells:  cells(e.formatter, DetailColumns, filtered[i]),
		})
	}

	aggs := aggregation.ByCity(filtered)
	v.FilteredUnits = aggregation.TotalUnits(aggs)
	summaryBadges := ranking.Annotate(aggs)
	v.Summary = make([]SummaryRow, 0, len(aggs))
	for _, i := range sortOrder(aggs, SummaryColumns, st.Summary) {
		v.Summary = append(v.Summary, SummaryRow{
			Aggregate: aggs[i],
			Badge:     summaryBadges[i],
			Cells:     cells(e.formatter, SummaryColumns, aggs[i]),
		})
	}
	return v
}

func cells[T any](f Formatter, cols []Column[T], item T) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Display(f, item)
	}
	return out
}

// Headers 回傳欄位標題。
func Headers[T any](cols []Column[T]) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}
