package view

import (
	"fmt"
	"math"
	"strconv"
)

// State 為單一使用者的檢視狀態。
type State struct {
	Filters FilterSet `json:"filters"`
	Detail  SortState `json:"detail_sort"`
	Summary SortState `json:"summary_sort"`
}

// DefaultSummarySort 為城市彙總的預設排序：中籤機率由高到低。
var DefaultSummarySort = SortState{Column: "city_win_probability", Direction: DirDesc}

// DefaultState 回傳無篩選、明細不排序、彙總依機率遞減的狀態。
func DefaultState() State {
	return State{
		Detail:  SortState{Direction: DirNone},
		Summary: DefaultSummarySort,
	}
}

// Activate 對指定表格欄位執行一次排序切換。
func (s *State) Activate(table Table, column string) error {
	if _, ok := columnHeader(table, column); !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}
	switch table {
	case TableDetail:
		s.Detail = ToggleSort(s.Detail, column)
	case TableSummary:
		s.Summary = ToggleSort(s.Summary, column)
	}
	return nil
}

// ClearSort 取消指定表格的排序。
func (s *State) ClearSort(table Table) error {
	switch table {
	case TableDetail:
		s.Detail = SortState{Direction: DirNone}
	case TableSummary:
		s.Summary = SortState{Direction: DirNone}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

// RemoveFilter 移除單一種類的篩選，恢復預設界線。
func (s *State) RemoveFilter(kind FilterKind) error {
	switch kind {
	case FilterCity:
		s.Filters.City = ""
	case FilterPrice:
		s.Filters.PriceMin, s.Filters.PriceMax = 0, 0
	case FilterChances:
		s.Filters.MinWinProbability = 0
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFilter, kind)
	}
	return nil
}

// Reset 恢復預設狀態。
func (s *State) Reset() {
	*s = DefaultState()
}

// Chip 為摘要列上可個別移除的標籤。
type Chip struct {
	Kind  string `json:"kind"`
	Table Table  `json:"table,omitempty"`
	Label string `json:"label"`
}

// ChipSort 為排序標籤的種類。
const ChipSort = "sort"

// Chips 列出生效中的篩選與明細排序。
func (s State) Chips() []Chip {
	var chips []Chip
	f := s.Filters
	if f.Active(FilterCity) {
		chips = append(chips, Chip{Kind: string(FilterCity), Label: "יישוב: " + f.City})
	}
	if f.Active(FilterPrice) {
		chips = append(chips, Chip{
			Kind:  string(FilterPrice),
			Label: fmt.Sprintf("מחיר למטר: %s - %s", boundText(f.PriceMin), boundText(f.upperPrice())),
		})
	}
	if f.Active(FilterChances) {
		chips = append(chips, Chip{Kind: string(FilterChances), Label: fmt.Sprintf("סיכויי זכייה: %s+", boundText(f.MinWinProbability))})
	}
	if s.Detail.Active() {
		if header, ok := columnHeader(TableDetail, s.Detail.Column); ok {
			chips = append(chips, Chip{Kind: ChipSort, Table: TableDetail, Label: header + ": " + directionLabel(s.Detail.Direction)})
		}
	}
	return chips
}

func boundText(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func directionLabel(d Direction) string {
	if d == DirDesc {
		return "יורד"
	}
	return "עולה"
}
