package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"lottery-odds/internal/domain/lottery"
)

// FilterKind 為可移除的篩選種類。
type FilterKind string

const (
	FilterCity    FilterKind = "city"
	FilterPrice   FilterKind = "price"
	FilterChances FilterKind = "chances"
)

// ParseFilterKind 解析篩選種類，不認得時回傳 ErrUnknownFilter。
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(strings.ToLower(strings.TrimSpace(s))) {
	case FilterCity:
		return FilterCity, nil
	case FilterPrice:
		return FilterPrice, nil
	case FilterChances:
		return FilterChances, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// FilterSet 為目前生效的篩選條件，全部以 AND 組合。
// PriceMax <= 0 代表沒有上限。
type FilterSet struct {
	City              string  `json:"city,omitempty"`
	PriceMin          float64 `json:"price_min,omitempty"`
	PriceMax          float64 `json:"price_max,omitempty"`
	MinWinProbability float64 `json:"chances_min,omitempty"`
}

func (f FilterSet) upperPrice() float64 {
	if f.PriceMax <= 0 || math.IsNaN(f.PriceMax) {
		return math.Inf(1)
	}
	return f.PriceMax
}

// Match 判斷單筆記錄是否通過所有篩選。
func (f FilterSet) Match(r lottery.ProjectRecord) bool {
	if f.City != "" && r.City != f.City {
		return false
	}
	if r.PricePerUnit < f.PriceMin || r.PricePerUnit > f.upperPrice() {
		return false
	}
	return r.WinProbability() >= f.MinWinProbability
}

// Apply 回傳通過篩選的記錄，保持原順序。
func (f FilterSet) Apply(records []lottery.ProjectRecord) []lottery.ProjectRecord {
	out := make([]lottery.ProjectRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Active 回傳指定種類的篩選是否生效。
func (f FilterSet) Active(kind FilterKind) bool {
	switch kind {
	case FilterCity:
		return f.City != ""
	case FilterPrice:
		return f.PriceMin != 0 || !math.IsInf(f.upperPrice(), 1)
	case FilterChances:
		return f.MinWinProbability != 0
	}
	return false
}

// FilterInput 為使用者輸入的原始字串。
type FilterInput struct {
	City       string `json:"city" form:"city"`
	PriceMin   string `json:"price_min" form:"price_min"`
	PriceMax   string `json:"price_max" form:"price_max"`
	ChancesMin string `json:"chances_min" form:"chances_min"`
}

// ParseFilters 將輸入字串轉為 FilterSet；無法解析、空白或 0 的數值都退回預設界線。
func ParseFilters(in FilterInput) FilterSet {
	return FilterSet{
		City:              strings.TrimSpace(in.City),
		PriceMin:          parseBound(in.PriceMin),
		PriceMax:          parseBound(in.PriceMax),
		MinWinProbability: parseBound(in.ChancesMin),
	}
}

func parseBound(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
