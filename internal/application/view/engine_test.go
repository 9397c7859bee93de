package view

import (
	"errors"
	"reflect"
	"testing"

	"lottery-odds/internal/application/normalize"
	"lottery-odds/internal/domain/lottery"
)

func record(num int64, city string, units, subs int64, price float64, religious bool) lottery.ProjectRecord {
	return lottery.NewProjectRecord(lottery.RawProject{
		LotteryNumber:   num,
		CityDescription: city,
		UnitsOffered:    units,
		Subscribers:     subs,
		PricePerUnit:    price,
		IsReligious:     religious,
	}, "round")
}

func exampleBase() normalize.Result {
	return normalize.Result{Records: []lottery.ProjectRecord{
		record(1, "A", 10, 100, 12000, false),
		record(2, "A", 5, 50, 8000, true),
		record(3, "B", 8, 8, 9000, false),
	}}
}

func newTestEngine() *Engine {
	return NewEngine(NewFormatter("en"))
}

func TestMaterialize_ExampleSummary(t *testing.T) {
	v := newTestEngine().Materialize(exampleBase(), DefaultState())

	if len(v.Summary) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(v.Summary))
	}
	if v.FilteredUnits != 23 {
		t.Errorf("expected 23 units, got %d", v.FilteredUnits)
	}
	first, second := v.Summary[0], v.Summary[1]
	if first.Aggregate.City != "B" || first.Badge != lottery.BadgeFirst {
		t.Errorf("expected B first with gold, got %s %v", first.Aggregate.City, first.Badge)
	}
	if second.Aggregate.City != "A" || second.Badge != lottery.BadgeSecond {
		t.Errorf("expected A second with silver, got %s %v", second.Aggregate.City, second.Badge)
	}
	if second.Aggregate.TotalUnits != 15 || second.Aggregate.CityWinProbability != 15 {
		t.Errorf("unexpected A aggregate: %+v", second.Aggregate)
	}
	if first.Cells[4] != "100.000%" {
		t.Errorf("unexpected percent text %q", first.Cells[4])
	}

	// detail keeps natural order by default
	for i, want := range []int64{1, 2, 3} {
		if v.Detail[i].Record.LotteryNumber != want {
			t.Errorf("detail %d: expected lottery %d, got %d", i, want, v.Detail[i].Record.LotteryNumber)
		}
	}
	if v.Detail[2].Badge != lottery.BadgeFirst {
		t.Errorf("expected lottery 3 to rank first, got %v", v.Detail[2].Badge)
	}
	if v.Detail[1].Cells[8] != ReligiousLabel || v.Detail[0].Cells[8] != "" {
		t.Errorf("unexpected religious cells: %q %q", v.Detail[0].Cells[8], v.Detail[1].Cells[8])
	}
	if v.Detail[0].Cells[5] != "₪12,000" {
		t.Errorf("unexpected price text %q", v.Detail[0].Cells[5])
	}
}

func TestMaterialize_FilterSubset(t *testing.T) {
	base := exampleBase()
	cases := []struct {
		name    string
		filters FilterSet
		want    []int64
	}{
		{"none", FilterSet{}, []int64{1, 2, 3}},
		{"city", FilterSet{City: "A"}, []int64{1, 2}},
		{"price range", FilterSet{PriceMin: 8500, PriceMax: 10000}, []int64{3}},
		{"chances", FilterSet{MinWinProbability: 10}, []int64{1, 2, 3}},
		{"chances high", FilterSet{MinWinProbability: 50}, []int64{3}},
		{"conjunction", FilterSet{City: "A", PriceMin: 9000}, []int64{1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := DefaultState()
			st.Filters = tc.filters
			v := newTestEngine().Materialize(base, st)
			if len(v.Detail) != len(tc.want) {
				t.Fatalf("expected %d rows, got %d", len(tc.want), len(v.Detail))
			}
			var units int64
			for i, row := range v.Detail {
				if row.Record.LotteryNumber != tc.want[i] {
					t.Errorf("row %d: expected %d, got %d", i, tc.want[i], row.Record.LotteryNumber)
				}
				if !tc.filters.Match(row.Record) {
					t.Errorf("row %d does not satisfy filters", i)
				}
				units += row.Record.UnitsOffered
			}
			var summed int64
			for _, s := range v.Summary {
				summed += s.Aggregate.TotalUnits
			}
			if summed != units {
				t.Errorf("summary units %d != detail units %d", summed, units)
			}
		})
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	st := DefaultState()
	st.Filters.City = "A"
	st.Detail = SortState{Column: "price_per_unit", Direction: DirDesc}
	e := newTestEngine()
	a := e.Materialize(exampleBase(), st)
	b := e.Materialize(exampleBase(), st)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical views")
	}
}

func TestMaterialize_SortReverse(t *testing.T) {
	base := exampleBase()
	e := newTestEngine()
	for _, col := range []string{"lottery_number", "units_offered", "subscribers", "price_per_unit"} {
		t.Run(col, func(t *testing.T) {
			asc := e.Materialize(base, State{Detail: SortState{Column: col, Direction: DirAsc}})
			desc := e.Materialize(base, State{Detail: SortState{Column: col, Direction: DirDesc}})
			n := len(asc.Detail)
			for i := range asc.Detail {
				if asc.Detail[i].Record.LotteryNumber != desc.Detail[n-1-i].Record.LotteryNumber {
					t.Fatalf("descending is not the reverse of ascending at %d", i)
				}
			}
		})
	}
}

func detailOrder(v View) []int64 {
	out := make([]int64, len(v.Detail))
	for i, row := range v.Detail {
		out[i] = row.Record.LotteryNumber
	}
	return out
}

func TestMaterialize_TiesKeepInputOrder(t *testing.T) {
	base := normalize.Result{Records: []lottery.ProjectRecord{
		record(1, "Beersheba", 1, 10, 1, false),
		record(2, "Ashdod", 2, 10, 1, false),
		record(3, "Beersheba", 3, 10, 1, false),
		record(4, "Ashdod", 4, 10, 1, false),
	}}
	e := newTestEngine()

	cases := []struct {
		dir  Direction
		want []int64
	}{
		{DirAsc, []int64{2, 4, 1, 3}},
		{DirDesc, []int64{1, 3, 2, 4}},
		{DirNone, []int64{1, 2, 3, 4}},
	}
	for _, tc := range cases {
		t.Run(string(tc.dir), func(t *testing.T) {
			v := e.Materialize(base, State{Detail: SortState{Column: "city", Direction: tc.dir}})
			if got := detailOrder(v); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMaterialize_ThreeActivationsRestoreNaturalOrder(t *testing.T) {
	base := exampleBase()
	e := newTestEngine()
	st := DefaultState()

	var orders [][]int64
	for i := 0; i < 3; i++ {
		if err := st.Activate(TableDetail, "price_per_unit"); err != nil {
			t.Fatal(err)
		}
		orders = append(orders, detailOrder(e.Materialize(base, st)))
	}

	want := [][]int64{{2, 3, 1}, {1, 3, 2}, {1, 2, 3}}
	if !reflect.DeepEqual(orders, want) {
		t.Fatalf("expected %v, got %v", want, orders)
	}
	if st.Detail.Active() {
		t.Fatalf("third activation must clear the sort, got %+v", st.Detail)
	}
}

func TestMaterialize_TextSortAndBadgesFollowRows(t *testing.T) {
	base := normalize.Result{Records: []lottery.ProjectRecord{
		record(1, "Haifa", 1, 10, 1, false),
		record(2, "Ashdod", 9, 10, 1, false),
		record(3, "Eilat", 5, 10, 1, false),
	}}
	v := newTestEngine().Materialize(base, State{
		Detail:  SortState{Column: "city", Direction: DirAsc},
		Summary: SortState{Column: "city", Direction: DirDesc},
	})
	got := []string{v.Detail[0].Record.City, v.Detail[1].Record.City, v.Detail[2].Record.City}
	if !reflect.DeepEqual(got, []string{"Ashdod", "Eilat", "Haifa"}) {
		t.Fatalf("unexpected detail order %v", got)
	}
	if v.Detail[0].Badge != lottery.BadgeFirst || v.Detail[2].Badge != lottery.BadgeThird {
		t.Errorf("badges must follow rows: %v %v", v.Detail[0].Badge, v.Detail[2].Badge)
	}
	if v.Summary[0].Aggregate.City != "Haifa" {
		t.Errorf("unexpected summary order: %s", v.Summary[0].Aggregate.City)
	}
}

func TestMaterialize_NoActiveVsFilteredOut(t *testing.T) {
	e := newTestEngine()

	v := e.Materialize(normalize.Result{NoActiveLotteries: true}, DefaultState())
	if !v.NoActiveLotteries || v.FilteredOut || len(v.Detail) != 0 {
		t.Fatalf("unexpected no-active view: %+v", v)
	}

	st := DefaultState()
	st.Filters.City = "Nowhere"
	v = e.Materialize(exampleBase(), st)
	if v.NoActiveLotteries || !v.FilteredOut || len(v.Summary) != 0 {
		t.Fatalf("unexpected filtered-out view: %+v", v)
	}

	v = e.Materialize(normalize.Result{}, DefaultState())
	if v.NoActiveLotteries || v.FilteredOut {
		t.Fatalf("empty base is neither no-active nor filtered-out: %+v", v)
	}
}

func TestToggleSort_Cycle(t *testing.T) {
	st := SortState{Direction: DirNone}
	st = ToggleSort(st, "city")
	if st != (SortState{Column: "city", Direction: DirAsc}) {
		t.Fatalf("expected asc, got %+v", st)
	}
	st = ToggleSort(st, "city")
	if st.Direction != DirDesc {
		t.Fatalf("expected desc, got %+v", st)
	}
	st = ToggleSort(st, "city")
	if st.Active() {
		t.Fatalf("expected none, got %+v", st)
	}

	st = ToggleSort(SortState{Column: "city", Direction: DirDesc}, "subscribers")
	if st != (SortState{Column: "subscribers", Direction: DirAsc}) {
		t.Fatalf("switching columns must start at asc, got %+v", st)
	}
}

func TestState_ActivateUnknownColumn(t *testing.T) {
	st := DefaultState()
	if err := st.Activate(TableDetail, "nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if err := st.Activate(TableDetail, "city_win_probability"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("summary column must be unknown on detail, got %v", err)
	}
	if _, err := ParseSortState(TableSummary, "contractor", "asc"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestState_SummaryToggleFromDefault(t *testing.T) {
	st := DefaultState()
	if err := st.Activate(TableSummary, "city_win_probability"); err != nil {
		t.Fatal(err)
	}
	if st.Summary.Active() {
		t.Fatalf("desc toggles to none, got %+v", st.Summary)
	}
}
