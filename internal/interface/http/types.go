package httpapi

import (
	"lottery-odds/internal/application/catalog"
	"lottery-odds/internal/application/view"
	"lottery-odds/internal/domain/lottery"
)

type columnResponse struct {
	Key    string `json:"key"`
	Header string `json:"header"`
	Sort   string `json:"sort,omitempty"`
}

type detailRowResponse struct {
	LotteryNumber  int64             `json:"lottery_number"`
	City           string            `json:"city"`
	Contractor     string            `json:"contractor"`
	UnitsOffered   int64             `json:"units_offered"`
	Subscribers    int64             `json:"subscribers"`
	PricePerUnit   float64           `json:"price_per_unit"`
	GrantSize      float64           `json:"grant_size"`
	WinProbability float64           `json:"win_probability"`
	IsReligious    bool              `json:"is_religious"`
	Badge          lottery.RankBadge `json:"badge,omitempty"`
	Medal          string            `json:"medal,omitempty"`
	Cells          []string          `json:"cells"`
}

type summaryRowResponse struct {
	City               string            `json:"city"`
	TotalUnits         int64             `json:"total_units"`
	MaxSubscribers     int64             `json:"max_subscribers"`
	AvgPricePerUnit    float64           `json:"avg_price_per_unit"`
	CityWinProbability float64           `json:"city_win_probability"`
	ProjectCount       int               `json:"project_count"`
	Badge              lottery.RankBadge `json:"badge,omitempty"`
	Medal              string            `json:"medal,omitempty"`
	Cells              []string          `json:"cells"`
}

type tableResponse[R any] struct {
	Columns []columnResponse `json:"columns"`
	Rows    []R              `json:"rows"`
}

type viewResponse struct {
	Success           bool                              `json:"success"`
	FetchedAt         interface{}                       `json:"fetched_at"`
	Source            lottery.Source                    `json:"source,omitempty"`
	NoActiveLotteries bool                              `json:"no_active_lotteries"`
	FilteredOut       bool                              `json:"filtered_out"`
	Message           string                            `json:"message,omitempty"`
	TotalRecords      int                               `json:"total_records"`
	TotalUnits        int64                             `json:"total_units"`
	State             view.State                        `json:"state"`
	Chips             []view.Chip                       `json:"chips"`
	Detail            tableResponse[detailRowResponse]  `json:"detail"`
	Summary           tableResponse[summaryRowResponse] `json:"summary"`
}

func columnsFor[T any](cols []view.Column[T], st view.SortState) []columnResponse {
	out := make([]columnResponse, len(cols))
	for i, c := range cols {
		out[i] = columnResponse{Key: c.Key, Header: c.Header}
		if st.Active() && st.Column == c.Key {
			out[i].Sort = string(st.Direction)
		}
	}
	return out
}

func toViewResponse(cat catalog.Catalog, v view.View) viewResponse {
	resp := viewResponse{
		Success:           true,
		NoActiveLotteries: v.NoActiveLotteries,
		FilteredOut:       v.FilteredOut,
		TotalRecords:      v.TotalRecords,
		TotalUnits:        v.FilteredUnits,
		State:             v.State,
		Chips:             v.Chips,
		Detail: tableResponse[detailRowResponse]{
			Columns: columnsFor(view.DetailColumns, v.State.Detail),
			Rows:    make([]detailRowResponse, 0, len(v.Detail)),
		},
		Summary: tableResponse[summaryRowResponse]{
			Columns: columnsFor(view.SummaryColumns, v.State.Summary),
			Rows:    make([]summaryRowResponse, 0, len(v.Summary)),
		},
	}
	if resp.Chips == nil {
		resp.Chips = []view.Chip{}
	}
	if cat.Entry != nil {
		resp.FetchedAt = optionalTime(cat.Entry.FetchedAt)
		resp.Source = cat.Entry.Source
	}
	if v.NoActiveLotteries {
		resp.Message = view.NoActiveMessage
	}

	for _, row := range v.Detail {
		r := row.Record
		resp.Detail.Rows = append(resp.Detail.Rows, detailRowResponse{
			LotteryNumber:  r.LotteryNumber,
			City:           r.City,
			Contractor:     r.Contractor,
			UnitsOffered:   r.UnitsOffered,
			Subscribers:    r.Subscribers,
			PricePerUnit:   r.PricePerUnit,
			GrantSize:      r.GrantSize,
			WinProbability: r.WinProbability(),
			IsReligious:    r.IsReligious,
			Badge:          row.Badge,
			Medal:          row.Badge.Medal(),
			Cells:          row.Cells,
		})
	}
	for _, row := range v.Summary {
		a := row.Aggregate
		resp.Summary.Rows = append(resp.Summary.Rows, summaryRowResponse{
			City:               a.City,
			TotalUnits:         a.TotalUnits,
			MaxSubscribers:     a.MaxSubscribers,
			AvgPricePerUnit:    a.AvgPricePerUnit,
			CityWinProbability: a.CityWinProbability,
			ProjectCount:       a.ProjectCount,
			Badge:              row.Badge,
			Medal:              row.Badge.Medal(),
			Cells:              row.Cells,
		})
	}
	return resp
}
