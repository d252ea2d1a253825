package series_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/curvewatch/curvewatch/series"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func mkSeries(name string, values map[string]float64) *series.Series {
	dates := make([]string, 0, len(values))
	for d := range values {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	s := &series.Series{Name: name}
	for _, d := range dates {
		s.Points = append(s.Points, series.Point{Date: day(d), Value: values[d]})
	}
	return s
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "us10y.csv")

	s := &series.Series{
		Name:   "DGS10",
		Source: "FRED:DGS10",
		Points: []series.Point{
			{Date: day("2024-01-02"), Value: 3.95},
			{Date: day("2024-01-03"), Value: 3.91},
			{Date: day("2024-01-04"), Value: 4.0},
		},
	}
	if err := s.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := series.ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got.Name != "DGS10" {
		t.Errorf("Name = %q, want DGS10 (from source tag)", got.Name)
	}
	if got.Source != "FRED:DGS10" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Len())
	}
	if got.Points[1].Value != 3.91 || !got.Points[1].Date.Equal(day("2024-01-03")) {
		t.Errorf("Points[1] = %+v", got.Points[1])
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := series.ReadCSV(path); err == nil {
		t.Fatal("ReadCSV accepted a file without date/yield_pct columns")
	}
}

func TestBetweenAndLastMonths(t *testing.T) {
	s := mkSeries("x", map[string]float64{
		"2023-01-10": 1,
		"2023-06-10": 2,
		"2024-01-10": 3,
		"2024-03-10": 4,
	})

	got := s.Between(day("2023-06-01"), day("2024-02-01"))
	if got.Len() != 2 {
		t.Fatalf("Between kept %d points, want 2", got.Len())
	}

	got = s.LastMonths(12)
	if got.Len() != 3 {
		t.Fatalf("LastMonths(12) kept %d points, want 3", got.Len())
	}
	if got.Points[0].Value != 2 {
		t.Errorf("first kept point = %+v, want the 2023-06-10 one", got.Points[0])
	}
}

func TestAlignCurve(t *testing.T) {
	us2 := mkSeries("DGS2", map[string]float64{
		"2024-01-02": 4.3, "2024-01-03": 4.2, "2024-01-04": 4.25,
	})
	us10 := mkSeries("DGS10", map[string]float64{
		"2024-01-02": 3.95, "2024-01-04": 4.0, // 01-03 missing
	})
	us30 := mkSeries("DGS30", map[string]float64{
		"2024-01-02": 4.1, "2024-01-03": 4.05, "2024-01-04": 4.15,
	})

	c, err := series.AlignCurve(us2, us10, us30)
	if err != nil {
		t.Fatalf("AlignCurve: %v", err)
	}
	// Only dates present in all three survive.
	if len(c.Dates) != 2 {
		t.Fatalf("aligned %d dates, want 2", len(c.Dates))
	}
	if !c.Dates[0].Equal(day("2024-01-02")) || !c.Dates[1].Equal(day("2024-01-04")) {
		t.Errorf("Dates = %v", c.Dates)
	}
	if c.Values[series.US10Y][1] != 4.0 {
		t.Errorf("US10Y[1] = %v, want 4.0", c.Values[series.US10Y][1])
	}

	if _, err := series.AlignCurve(us2, &series.Series{}, us30); err == nil {
		t.Error("AlignCurve accepted an empty series")
	}
}

func TestCurveLastMonths(t *testing.T) {
	mk := func(name string) *series.Series {
		return mkSeries(name, map[string]float64{
			"2023-01-10": 1, "2023-09-10": 2, "2024-01-10": 3, "2024-03-10": 4,
		})
	}
	c, err := series.AlignCurve(mk("DGS2"), mk("DGS10"), mk("DGS30"))
	if err != nil {
		t.Fatalf("AlignCurve: %v", err)
	}

	got := c.LastMonths(12)
	if len(got.Dates) != 3 {
		t.Fatalf("LastMonths(12) kept %d dates, want 3", len(got.Dates))
	}
	if !got.Dates[0].Equal(day("2023-09-10")) {
		t.Errorf("first kept date = %v, want 2023-09-10", got.Dates[0])
	}
	if len(got.Values[series.US10Y]) != 3 {
		t.Errorf("US10Y kept %d values, want 3", len(got.Values[series.US10Y]))
	}

	// Zero months means no trim.
	if got := c.LastMonths(0); len(got.Dates) != 4 {
		t.Errorf("LastMonths(0) kept %d dates, want 4", len(got.Dates))
	}
}

func TestRangeLastPrev(t *testing.T) {
	s := mkSeries("x", map[string]float64{
		"2024-01-02": 3.0, "2024-01-03": 5.0, "2024-01-04": 4.0,
	})
	min, max := s.Range()
	if min != 3.0 || max != 5.0 {
		t.Errorf("Range = (%v, %v)", min, max)
	}
	last, _ := s.Last()
	prev, _ := s.Prev()
	if last.Value != 4.0 || prev.Value != 5.0 {
		t.Errorf("last %v prev %v", last.Value, prev.Value)
	}
}
