package normalize

import (
	"fmt"

	"lottery-odds/internal/domain/lottery"
)

// Result 為一次正規化的輸出。
type Result struct {
	Records []lottery.ProjectRecord
	// NoActiveLotteries 代表上游回報目前沒有開放的抽籤，與「篩選後為空」不同。
	NoActiveLotteries bool
	ReferenceTag      string
	Dropped           int
	// DuplicateLotteryNumbers 列出重複出現的抽籤編號（保留原順序，僅列一次）。
	DuplicateLotteryNumbers []int64
}

// Normalize 合併所有分頁、以第一筆的 grouping tag 過濾並計算中籤機率。
func Normalize(snap lottery.RawSnapshot) (Result, error) {
	if len(snap) == 0 {
		return Result{}, lottery.NewRetrievalError(lottery.ErrMalformedPayload, fmt.Errorf("snapshot has no batches"))
	}
	if snap[0].OpenLotteriesCount == 0 {
		return Result{NoActiveLotteries: true}, nil
	}

	total := 0
	for _, b := range snap {
		total += len(b.ProjectItems)
	}
	items := make([]lottery.RawProject, 0, total)
	for _, b := range snap {
		items = append(items, b.ProjectItems...)
	}

	var res Result
	if len(items) == 0 {
		return res, nil
	}

	ref := items[0].GroupingTag
	if ref != nil {
		res.ReferenceTag = *ref
	}

	seen := make(map[int64]int, len(items))
	res.Records = make([]lottery.ProjectRecord, 0, len(items))
	for _, it := range items {
		// a nil reference tag matches nothing
		if ref == nil || it.GroupingTag == nil || *it.GroupingTag != *ref {
			res.Dropped++
			continue
		}
		seen[it.LotteryNumber]++
		if seen[it.LotteryNumber] == 2 {
			res.DuplicateLotteryNumbers = append(res.DuplicateLotteryNumbers, it.LotteryNumber)
		}
		res.Records = append(res.Records, lottery.NewProjectRecord(it, *ref))
	}
	return res, nil
}
