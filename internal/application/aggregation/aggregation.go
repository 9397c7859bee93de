package aggregation

import "lottery-odds/internal/domain/lottery"

// ByCity 依城市名稱（完全相等）分組，輸出順序為城市首次出現的順序。
func ByCity(records []lottery.ProjectRecord) []lottery.CityAggregate {
	index := make(map[string]int)
	var out []lottery.CityAggregate
	var priceSums []float64

	for _, r := range records {
		i, ok := index[r.City]
		if !ok {
			i = len(out)
			index[r.City] = i
			out = append(out, lottery.CityAggregate{City: r.City})
			priceSums = append(priceSums, 0)
		}
		agg := &out[i]
		agg.TotalUnits += r.UnitsOffered
		if agg.ProjectCount == 0 || r.Subscribers > agg.MaxSubscribers {
			agg.MaxSubscribers = r.Subscribers
		}
		agg.ProjectCount++
		priceSums[i] += r.PricePerUnit
	}

	for i := range out {
		out[i].AvgPricePerUnit = priceSums[i] / float64(out[i].ProjectCount)
		out[i].CityWinProbability = lottery.WinProbability(out[i].TotalUnits, out[i].MaxSubscribers)
	}
	return out
}

// TotalUnits 加總所有彙總的戶數。
func TotalUnits(aggs []lottery.CityAggregate) int64 {
	var sum int64
	for _, a := range aggs {
		sum += a.TotalUnits
	}
	return sum
}
