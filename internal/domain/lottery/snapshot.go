package lottery

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawProject 對應上游 ProjectItems 內的單一專案，只保留核心會用到的欄位。
type RawProject struct {
	LotteryNumber         int64   `json:"LotteryNumber"`
	CityDescription       string  `json:"CityDescription"`
	ContractorDescription string  `json:"ContractorDescription"`
	UnitsOffered          int64   `json:"LotteryApparmentsNum"`
	Subscribers           int64   `json:"TotalSubscribers"`
	PricePerUnit          float64 `json:"PricePerUnit"`
	GrantSize             float64 `json:"GrantSize"`
	IsReligious           bool    `json:"IsReligious"`
	GroupingTag           *string `json:"SpecialLotteryDescription"`
}

// RawBatch 為上游單一分頁的回應。
type RawBatch struct {
	OpenLotteriesCount int          `json:"OpenLotteriesCount"`
	ProjectItems       []RawProject `json:"ProjectItems"`
}

// RawSnapshot 為一次完整抓取的所有分頁，順序與設定的 URL 順序相同。
type RawSnapshot []RawBatch

// Source 標示快取內容的來源。
type Source string

const (
	SourceUpstream Source = "upstream"
	SourceStore    Source = "store"
)

// CacheEntry 為最近一次成功抓取的快照；建立後不可修改，只會整筆替換。
type CacheEntry struct {
	Payload   []byte
	Snapshot  RawSnapshot
	FetchedAt time.Time
	Source    Source
}

// ParseSnapshot 將上游原始 JSON 陣列解析為 RawSnapshot；形狀不符時回傳 ErrMalformedPayload。
func ParseSnapshot(payload []byte) (RawSnapshot, error) {
	var pages []json.RawMessage
	if err := json.Unmarshal(payload, &pages); err != nil {
		return nil, NewRetrievalError(ErrMalformedPayload, fmt.Errorf("decode snapshot: %w", err))
	}
	if len(pages) == 0 {
		return nil, NewRetrievalError(ErrMalformedPayload, fmt.Errorf("snapshot has no batches"))
	}
	snap := make(RawSnapshot, 0, len(pages))
	for i, page := range pages {
		batch, err := ParseBatch(page)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		snap = append(snap, batch)
	}
	return snap, nil
}

// batchShape 用來確認分頁必要欄位確實存在；null 與缺欄位都會留下 nil。
type batchShape struct {
	OpenLotteriesCount *int          `json:"OpenLotteriesCount"`
	ProjectItems       *[]RawProject `json:"ProjectItems"`
}

// ParseBatch 解析單一分頁；必須是帶有 OpenLotteriesCount 與 ProjectItems 的 JSON 物件。
func ParseBatch(page []byte) (RawBatch, error) {
	var shape batchShape
	if err := json.Unmarshal(page, &shape); err != nil {
		return RawBatch{}, NewRetrievalError(ErrMalformedPayload, fmt.Errorf("decode page: %w", err))
	}
	if shape.OpenLotteriesCount == nil || shape.ProjectItems == nil {
		return RawBatch{}, NewRetrievalError(ErrMalformedPayload, fmt.Errorf("page missing OpenLotteriesCount or ProjectItems"))
	}
	return RawBatch{OpenLotteriesCount: *shape.OpenLotteriesCount, ProjectItems: *shape.ProjectItems}, nil
}
