package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownColumn = errors.New("unknown sort column")
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownFilter = errors.New("unknown filter")
)

// Direction 為排序方向。
type Direction string

const (
	DirNone Direction = "none"
	DirAsc  Direction = "asc"
	DirDesc Direction = "desc"
)

// SortState 為單一表格的排序狀態；Direction 為 none 時 Column 無意義。
type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction"`
}

// Active 回傳是否有生效的排序。
func (s SortState) Active() bool {
	return s.Column != "" && (s.Direction == DirAsc || s.Direction == DirDesc)
}

// ToggleSort 點擊欄位時的狀態轉移：同一欄 none → asc → desc → none，換欄則從 asc 開始。
func ToggleSort(cur SortState, column string) SortState {
	if cur.Column != column || !cur.Active() {
		return SortState{Column: column, Direction: DirAsc}
	}
	if cur.Direction == DirAsc {
		return SortState{Column: column, Direction: DirDesc}
	}
	return SortState{Direction: DirNone}
}

// ParseSortState 由查詢參數建立排序狀態並檢查欄位。column 為空代表不排序。
func ParseSortState(table Table, column, dir string) (SortState, error) {
	column = strings.TrimSpace(column)
	if column == "" {
		return SortState{Direction: DirNone}, nil
	}
	if _, ok := columnHeader(table, column); !ok {
		return SortState{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}
	switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case DirDesc:
		return SortState{Column: column, Direction: DirDesc}, nil
	case DirNone:
		return SortState{Direction: DirNone}, nil
	default:
		return SortState{Column: column, Direction: DirAsc}, nil
	}
}

// sortOrder 回傳依排序狀態排列後的索引；未排序時維持自然順序。
func sortOrder[T any](items []T, cols []Column[T], st SortState) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if !st.Active() {
		return order
	}
	col, ok := findColumn(cols, st.Column)
	if !ok {
		return order
	}
	slices.SortStableFunc(order, func(a, b int) int {
		c := col.Compare(items[a], items[b])
		if st.Direction == DirDesc {
			return -c
		}
		return c
	})
	return order
}
