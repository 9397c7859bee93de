package ranking

import (
	"cmp"
	"slices"

	"lottery-odds/internal/domain/lottery"
)

// Ranked 為任何可提供中籤機率的實體。
type Ranked interface {
	WinProbability() float64
}

// Annotate 依中籤機率遞減排序副本並標記前三名，回傳與輸入同長度、同順序的標記。
// 同分時以輸入順序決定名次（穩定排序）。
func Annotate[T Ranked](items []T) []lottery.RankBadge {
	badges := make([]lottery.RankBadge, len(items))
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(items[b].WinProbability(), items[a].WinProbability())
	})

	podium := []lottery.RankBadge{lottery.BadgeFirst, lottery.BadgeSecond, lottery.BadgeThird}
	for pos, idx := range order {
		if pos >= len(podium) {
			break
		}
		badges[idx] = podium[pos]
	}
	return badges
}
