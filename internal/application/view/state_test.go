package view

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestParseFilters(t *testing.T) {
	cases := []struct {
		name string
		in   FilterInput
		want FilterSet
	}{
		{"empty", FilterInput{}, FilterSet{}},
		{"values", FilterInput{City: " Haifa ", PriceMin: "100", PriceMax: "2500.5", ChancesMin: "12"}, FilterSet{City: "Haifa", PriceMin: 100, PriceMax: 2500.5, MinWinProbability: 12}},
		{"invalid falls back", FilterInput{PriceMin: "abc", PriceMax: "x", ChancesMin: "NaN"}, FilterSet{}},
		{"infinite ignored", FilterInput{PriceMax: "Inf"}, FilterSet{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseFilters(tc.in); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestFilterSet_ZeroMaxIsUnbounded(t *testing.T) {
	f := ParseFilters(FilterInput{PriceMax: "0"})
	if !f.Match(record(1, "A", 1, 1, 1e9, false)) {
		t.Fatal("price max 0 must not bound the range")
	}
	if f.Active(FilterPrice) {
		t.Fatal("default price bounds must not be active")
	}
}

func TestState_ChipsAndRemoval(t *testing.T) {
	st := DefaultState()
	st.Filters = FilterSet{City: "חיפה", PriceMin: 100, MinWinProbability: 5}
	if err := st.Activate(TableDetail, "subscribers"); err != nil {
		t.Fatal(err)
	}
	if err := st.Activate(TableDetail, "subscribers"); err != nil {
		t.Fatal(err)
	}

	chips := st.Chips()
	want := []Chip{
		{Kind: "city", Label: "יישוב: חיפה"},
		{Kind: "price", Label: "מחיר למטר: 100 - ∞"},
		{Kind: "chances", Label: "סיכויי זכייה: 5+"},
		{Kind: ChipSort, Table: TableDetail, Label: "נרשמים: יורד"},
	}
	if len(chips) != len(want) {
		t.Fatalf("expected %d chips, got %+v", len(want), chips)
	}
	for i := range want {
		if chips[i] != want[i] {
			t.Errorf("chip %d: expected %+v, got %+v", i, want[i], chips[i])
		}
	}

	if err := st.RemoveFilter(FilterPrice); err != nil {
		t.Fatal(err)
	}
	if err := st.ClearSort(TableDetail); err != nil {
		t.Fatal(err)
	}
	if got := len(st.Chips()); got != 2 {
		t.Fatalf("expected 2 chips after removal, got %d", got)
	}
	if err := st.RemoveFilter("bogus"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}

	st.Reset()
	if st != DefaultState() {
		t.Fatalf("reset must restore defaults, got %+v", st)
	}
}

func TestParseTableAndFilterKind(t *testing.T) {
	if tb, err := ParseTable("Summary"); err != nil || tb != TableSummary {
		t.Fatalf("unexpected %v %v", tb, err)
	}
	if _, err := ParseTable("x"); !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
	if k, err := ParseFilterKind("chances"); err != nil || k != FilterChances {
		t.Fatalf("unexpected %v %v", k, err)
	}
}

func TestSessions_DoIsolatesAndRollsBack(t *testing.T) {
	s := NewSessions(time.Hour)
	if _, err := s.Do("a", func(st *State) error {
		st.Filters.City = "A"
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if got := s.Get("b").Filters.City; got != "" {
		t.Fatalf("sessions must be isolated, got %q", got)
	}

	st, err := s.Do("a", func(st *State) error {
		st.Filters.City = "changed"
		return st.Activate(TableDetail, "nope")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if st.Filters.City != "A" || s.Get("a").Filters.City != "A" {
		t.Fatalf("failed action must leave state untouched, got %q", st.Filters.City)
	}
}

func TestSessions_SerializedPerSession(t *testing.T) {
	s := NewSessions(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Do("same", func(st *State) error {
				st.Filters.MinWinProbability++
				return nil
			})
		}()
	}
	wg.Wait()
	if got := s.Get("same").Filters.MinWinProbability; got != 50 {
		t.Fatalf("expected 50 serialized increments, got %v", got)
	}
}

func TestSessions_TTL(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(time.Hour)
	s.now = func() time.Time { return now }

	_, _ = s.Do("a", func(st *State) error { st.Filters.City = "A"; return nil })
	now = now.Add(2 * time.Hour)
	if got := s.Sweep(); got != 1 || s.Len() != 0 {
		t.Fatalf("expected one expired session, removed=%d len=%d", got, s.Len())
	}

	_, _ = s.Do("b", func(st *State) error { st.Filters.City = "B"; return nil })
	now = now.Add(2 * time.Hour)
	if got := s.Get("b").Filters.City; got != "" {
		t.Fatalf("expired session must restart from defaults, got %q", got)
	}
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("en")
	if got := f.Count(1234567); got != "1,234,567" {
		t.Errorf("Count: got %q", got)
	}
	if got := f.Money(9000); got != "₪9,000" {
		t.Errorf("Money: got %q", got)
	}
	if got := f.Percent(15); got != "15.000%" {
		t.Errorf("Percent: got %q", got)
	}
	// invalid locale falls back without panicking
	_ = NewFormatter("!!").Count(1)
}
