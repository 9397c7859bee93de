package aggregation

import (
	"math"
	"testing"

	"lottery-odds/internal/domain/lottery"
)

func rec(city string, units, subs int64, price float64) lottery.ProjectRecord {
	return lottery.NewProjectRecord(lottery.RawProject{
		CityDescription: city,
		UnitsOffered:    units,
		Subscribers:     subs,
		PricePerUnit:    price,
	}, "t")
}

func TestByCity_Example(t *testing.T) {
	records := []lottery.ProjectRecord{
		rec("A", 10, 100, 12000),
		rec("A", 5, 50, 8000),
		rec("B", 8, 8, 9000),
	}
	aggs := ByCity(records)
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}

	a := aggs[0]
	if a.City != "A" || a.TotalUnits != 15 || a.MaxSubscribers != 100 || a.CityWinProbability != 15 || a.ProjectCount != 2 {
		t.Errorf("unexpected aggregate A: %+v", a)
	}
	if a.AvgPricePerUnit != 10000 {
		t.Errorf("expected unweighted mean 10000, got %v", a.AvgPricePerUnit)
	}
	b := aggs[1]
	if b.City != "B" || b.TotalUnits != 8 || b.MaxSubscribers != 8 || b.CityWinProbability != 100 {
		t.Errorf("unexpected aggregate B: %+v", b)
	}
}

func TestByCity_ExactNameMatching(t *testing.T) {
	aggs := ByCity([]lottery.ProjectRecord{
		rec("Tel Aviv", 1, 1, 1),
		rec("tel aviv", 1, 1, 1),
		rec("Tel Aviv ", 1, 1, 1),
	})
	if len(aggs) != 3 {
		t.Fatalf("expected case/whitespace sensitive grouping, got %d groups", len(aggs))
	}
}

func TestByCity_ZeroSubscribers(t *testing.T) {
	aggs := ByCity([]lottery.ProjectRecord{rec("A", 4, 0, 1), rec("A", 2, 0, 3)})
	if aggs[0].CityWinProbability != 0 || aggs[0].MaxSubscribers != 0 {
		t.Fatalf("unexpected aggregate: %+v", aggs[0])
	}
}

func TestByCity_UnitSumInvariant(t *testing.T) {
	var records []lottery.ProjectRecord
	var want int64
	cities := []string{"A", "B", "C", "D"}
	for i := 0; i < 40; i++ {
		units := int64(i*7%13 + 1)
		want += units
		records = append(records, rec(cities[i%len(cities)], units, int64(i*11%29+1), float64(i*100)))
	}
	aggs := ByCity(records)
	if got := TotalUnits(aggs); got != want {
		t.Fatalf("sum(totalUnits)=%d want %d", got, want)
	}
	if len(aggs) != len(cities) {
		t.Fatalf("expected one aggregate per city, got %d", len(aggs))
	}
	for _, a := range aggs {
		if math.IsNaN(a.AvgPricePerUnit) {
			t.Fatalf("NaN mean for %s", a.City)
		}
	}
}

func TestByCity_Empty(t *testing.T) {
	if aggs := ByCity(nil); len(aggs) != 0 {
		t.Fatalf("expected no aggregates, got %d", len(aggs))
	}
}
