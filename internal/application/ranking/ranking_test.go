package ranking

import (
	"testing"

	"lottery-odds/internal/domain/lottery"
)

type entity float64

func (e entity) WinProbability() float64 { return float64(e) }

func TestAnnotate_TopThree(t *testing.T) {
	items := []entity{5, 40, 12, 90, 1}
	badges := Annotate(items)

	want := []lottery.RankBadge{lottery.BadgeNone, lottery.BadgeSecond, lottery.BadgeThird, lottery.BadgeFirst, lottery.BadgeNone}
	for i := range want {
		if badges[i] != want[i] {
			t.Errorf("item %d: expected %v, got %v", i, want[i], badges[i])
		}
	}
	// input must stay untouched
	if items[0] != 5 || items[3] != 90 {
		t.Error("input order mutated")
	}
}

func TestAnnotate_TiesBrokenByInputOrder(t *testing.T) {
	items := []entity{50, 30, 30, 30}
	badges := Annotate(items)
	want := []lottery.RankBadge{lottery.BadgeFirst, lottery.BadgeSecond, lottery.BadgeThird, lottery.BadgeNone}
	for i := range want {
		if badges[i] != want[i] {
			t.Errorf("item %d: expected %v, got %v", i, want[i], badges[i])
		}
	}
}

func TestAnnotate_ExactlyOneOfEach(t *testing.T) {
	items := make([]entity, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, entity(i*37%11))
	}
	counts := map[lottery.RankBadge]int{}
	for _, b := range Annotate(items) {
		counts[b]++
	}
	for _, b := range []lottery.RankBadge{lottery.BadgeFirst, lottery.BadgeSecond, lottery.BadgeThird} {
		if counts[b] != 1 {
			t.Errorf("expected exactly one %v, got %d", b, counts[b])
		}
	}
}

func TestAnnotate_FewerThanThree(t *testing.T) {
	badges := Annotate([]entity{1, 2})
	if badges[0] != lottery.BadgeSecond || badges[1] != lottery.BadgeFirst {
		t.Fatalf("unexpected badges: %v", badges)
	}
	if len(Annotate([]entity{})) != 0 {
		t.Fatal("expected no badges for empty input")
	}
}

func TestAnnotate_Aggregates(t *testing.T) {
	aggs := []lottery.CityAggregate{
		{City: "A", CityWinProbability: 15},
		{City: "B", CityWinProbability: 100},
	}
	badges := Annotate(aggs)
	if badges[1] != lottery.BadgeFirst || badges[0] != lottery.BadgeSecond {
		t.Fatalf("unexpected badges: %v", badges)
	}
}
