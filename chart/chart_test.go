package chart_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/curvewatch/curvewatch/chart"
	"github.com/curvewatch/curvewatch/series"
)

func testCurve(t *testing.T) *series.Curve {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	mk := func(name string, base float64) *series.Series {
		s := &series.Series{Name: name}
		for i := 0; i < 40; i++ {
			s.Points = append(s.Points, series.Point{
				Date:  start.AddDate(0, 0, i),
				Value: base + 0.01*float64(i%7),
			})
		}
		return s
	}
	c, err := series.AlignCurve(mk("DGS2", 4.3), mk("DGS10", 3.9), mk("DGS30", 4.1))
	if err != nil {
		t.Fatalf("AlignCurve: %v", err)
	}
	return c
}

func TestRenderers(t *testing.T) {
	c := testCurve(t)
	dir := t.TempDir()

	renders := map[string]func(path string) error{
		"yields.png":     func(p string) error { return chart.Yields(c, p) },
		"spreads.png":    func(p string) error { return chart.Spreads(c, 20, false, p) },
		"butterfly.png":  func(p string) error { return chart.Butterfly(c, 20, p) },
		"volatility.png": func(p string) error { return chart.Volatility(c, 30, true, p) },
		"zscore.png":     func(p string) error { return chart.ZScore(c, 20, p) },
	}

	for name, fn := range renders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "charts", name)
			if err := fn(path); err != nil {
				t.Fatalf("render: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Size() == 0 {
				t.Error("rendered chart is empty")
			}
		})
	}
}

// Two inversion stretches in the middle of the sample, so the spreads
// view has highlighted spans plus normal segments on either side.
func TestSpreadsInvertedSpans(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	mk := func(name string, values []float64) *series.Series {
		s := &series.Series{Name: name}
		for i, v := range values {
			s.Points = append(s.Points, series.Point{Date: start.AddDate(0, 0, i), Value: v})
		}
		return s
	}

	v2 := make([]float64, 30)
	v10 := make([]float64, 30)
	v30 := make([]float64, 30)
	for i := 0; i < 30; i++ {
		v2[i] = 4.0
		v10[i] = 4.2
		v30[i] = 4.4
	}
	for i := 5; i < 10; i++ {
		v10[i] = 3.8
	}
	for i := 18; i < 24; i++ {
		v10[i] = 3.9
	}

	c, err := series.AlignCurve(mk("DGS2", v2), mk("DGS10", v10), mk("DGS30", v30))
	if err != nil {
		t.Fatalf("AlignCurve: %v", err)
	}

	sp := c.Spread(series.US10Y, series.US2Y)
	if got := len(sp.InversionSpans()); got != 2 {
		t.Fatalf("InversionSpans = %d spans, want 2", got)
	}

	path := filepath.Join(t.TempDir(), "spreads.png")
	if err := chart.Spreads(c, 5, false, path); err != nil {
		t.Fatalf("Spreads: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("rendered chart is empty")
	}
}

func TestYieldPanels(t *testing.T) {
	c := testCurve(t)
	dir := t.TempDir()

	paths, err := chart.YieldPanels(c, dir)
	if err != nil {
		t.Fatalf("YieldPanels: %v", err)
	}
	want := []string{"yields_us2y.png", "yields_us10y.png", "yields_us30y.png"}
	if len(paths) != len(want) {
		t.Fatalf("YieldPanels returned %d paths, want %d", len(paths), len(want))
	}
	for i, name := range want {
		if paths[i] != filepath.Join(dir, name) {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], filepath.Join(dir, name))
		}
		info, err := os.Stat(paths[i])
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
