package lottery

import (
	"errors"
	"fmt"
	"testing"
)

func TestWinProbability(t *testing.T) {
	cases := []struct {
		units, subs int64
		want        float64
	}{
		{10, 100, 10},
		{8, 8, 100},
		{5, 0, 0},
		{0, 40, 0},
	}
	for _, c := range cases {
		if got := WinProbability(c.units, c.subs); got != c.want {
			t.Errorf("WinProbability(%d,%d)=%v want %v", c.units, c.subs, got, c.want)
		}
	}
}

func TestNewProjectRecord(t *testing.T) {
	tag := "round-7"
	rec := NewProjectRecord(RawProject{
		LotteryNumber:         1234,
		CityDescription:       "חיפה",
		ContractorDescription: "Builder",
		UnitsOffered:          30,
		Subscribers:           600,
		PricePerUnit:          9500,
		GroupingTag:           &tag,
	}, tag)

	if rec.City != "חיפה" || rec.GroupingTag != tag || rec.LotteryNumber != 1234 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.WinProbability() != 5 {
		t.Fatalf("expected 5%%, got %v", rec.WinProbability())
	}
}

func TestParseSnapshot(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		payload := []byte(`[{"OpenLotteriesCount":2,"ProjectItems":[{"LotteryNumber":1,"CityDescription":"A","LotteryApparmentsNum":3,"TotalSubscribers":9,"SpecialLotteryDescription":"x"}]},{"OpenLotteriesCount":2,"ProjectItems":[]}]`)
		snap, err := ParseSnapshot(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(snap) != 2 || snap[0].OpenLotteriesCount != 2 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
		item := snap[0].ProjectItems[0]
		if item.UnitsOffered != 3 || item.Subscribers != 9 || item.GroupingTag == nil || *item.GroupingTag != "x" {
			t.Fatalf("unexpected item: %+v", item)
		}
	})

	t.Run("NotAnArray", func(t *testing.T) {
		_, err := ParseSnapshot([]byte(`{"OpenLotteriesCount":1}`))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("expected malformed payload, got %v", err)
		}
	})

	t.Run("NullOrIncompletePage", func(t *testing.T) {
		for _, payload := range []string{
			`[{"OpenLotteriesCount":1,"ProjectItems":[]},null]`,
			`[{"OpenLotteriesCount":1,"ProjectItems":[]},{}]`,
			`[{"OpenLotteriesCount":1}]`,
			`[{"ProjectItems":[]}]`,
			`[{"OpenLotteriesCount":1,"ProjectItems":null}]`,
			`[[]]`,
			`null`,
		} {
			if _, err := ParseSnapshot([]byte(payload)); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("%s: expected malformed payload, got %v", payload, err)
			}
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseSnapshot([]byte(`[]`))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("expected malformed payload, got %v", err)
		}
	})
}

func TestRetrievalError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("refresh: %w", NewRetrievalError(ErrUpstreamUnavailable, cause))

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("expected ErrUpstreamUnavailable")
	}
	if errors.Is(err, ErrMalformedPayload) {
		t.Error("did not expect ErrMalformedPayload")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if !IsRetrievalError(err) {
		t.Error("expected IsRetrievalError")
	}
	if IsRetrievalError(cause) {
		t.Error("plain error is not a retrieval error")
	}
}

func TestRankBadge(t *testing.T) {
	if BadgeFirst.Medal() != "🥇" || BadgeThird.String() != "third" || BadgeNone.Medal() != "" {
		t.Error("unexpected badge rendering")
	}
	b, _ := BadgeSecond.MarshalText()
	if string(b) != "second" {
		t.Errorf("unexpected text %s", b)
	}
	var back RankBadge
	if err := back.UnmarshalText(b); err != nil || back != BadgeSecond {
		t.Errorf("round trip got %v %v", back, err)
	}
}
