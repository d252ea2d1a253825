// Package chart renders curvewatch series as PNG line charts.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/curvewatch/curvewatch/series"
)

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorOrange,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorCyan,
}

func timeSeries(s *series.Series, idx int, dashed bool) chart.TimeSeries {
	xs := make([]time.Time, s.Len())
	ys := make([]float64, s.Len())
	for i, p := range s.Points {
		xs[i] = p.Date
		ys[i] = p.Value
	}
	style := chart.Style{StrokeColor: palette[idx%len(palette)], StrokeWidth: 1.5}
	if dashed {
		style.StrokeDashArray = []float64{5.0, 5.0}
	}
	return chart.TimeSeries{Name: s.Name, XValues: xs, YValues: ys, Style: style}
}

// constantLine draws a horizontal reference at y across the date span of s.
func constantLine(s *series.Series, y float64) chart.TimeSeries {
	if s.Len() == 0 {
		return chart.TimeSeries{}
	}
	first := s.Points[0].Date
	last := s.Points[s.Len()-1].Date
	return chart.TimeSeries{
		XValues: []time.Time{first, last},
		YValues: []float64{y, y},
		Style: chart.Style{
			StrokeColor:     chart.ColorAlternateGray,
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{2.0, 2.0},
		},
	}
}

func render(title, yLabel, path string, ss ...chart.Series) error {
	graph := chart.Chart{
		Title:  title,
		Width:  1200,
		Height: 500,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Name: yLabel},
		Series: ss,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}

// Yields renders the three curve vertices on one chart.
func Yields(c *series.Curve, path string) error {
	v2 := c.Vertex(series.US2Y)
	v10 := c.Vertex(series.US10Y)
	v30 := c.Vertex(series.US30Y)
	return render("US Treasury Yields", "%", path,
		timeSeries(v2, 0, false),
		timeSeries(v10, 1, false),
		timeSeries(v30, 2, false),
	)
}

// YieldPanels renders each curve vertex on its own chart, one PNG per
// maturity, for when the combined Yields view squashes the levels
// together. Returns the written paths in maturity order.
func YieldPanels(c *series.Curve, dir string) ([]string, error) {
	maturities := []series.Maturity{series.US2Y, series.US10Y, series.US30Y}
	paths := make([]string, 0, len(maturities))
	for i, m := range maturities {
		path := filepath.Join(dir, "yields_"+strings.ToLower(string(m))+".png")
		if err := render(fmt.Sprintf("%s Yield", m), "%", path, timeSeries(c.Vertex(m), i, false)); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// inversionOverlay highlights the stretches where a spread is negative.
// Each span is drawn as an unnamed heavy red segment so the legend stays
// limited to the spreads themselves.
func inversionOverlay(sp *series.Series) []chart.Series {
	var ss []chart.Series
	for _, span := range sp.InversionSpans() {
		seg := sp.Between(span.Start, span.End)
		if seg.Len() < 2 {
			continue
		}
		xs := make([]time.Time, seg.Len())
		ys := make([]float64, seg.Len())
		for i, p := range seg.Points {
			xs[i] = p.Date
			ys[i] = p.Value
		}
		ss = append(ss, chart.TimeSeries{
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 3.0},
		})
	}
	return ss
}

// Spreads renders the three standard curve spreads plus their moving
// averages, a zero reference line, and highlighted inversion spans on
// the 10y-2y spread.
func Spreads(c *series.Curve, window int, ema bool, path string) error {
	smooth := func(s *series.Series) *series.Series {
		if ema {
			return s.EMA(window)
		}
		return s.RollingMean(window)
	}

	names := []string{series.Spread10s2s, series.Spread30s2s, series.Spread30s10s}
	spreads := c.Spreads()

	var ss []chart.Series
	for i, name := range names {
		sp := spreads[name]
		ss = append(ss, timeSeries(sp, i, false), timeSeries(smooth(sp), i, true))
	}
	ss = append(ss, inversionOverlay(spreads[series.Spread10s2s])...)
	ss = append(ss, constantLine(spreads[names[0]], 0))

	return render("US Curve Spreads", "pp", path, ss...)
}

// Butterfly renders 30Y - 2x10Y + 2Y with its moving average.
func Butterfly(c *series.Curve, window int, path string) error {
	b := c.Butterfly()
	return render("Curve Butterfly = 30Y - 2x10Y + 2Y", "pp", path,
		timeSeries(b, 0, false),
		timeSeries(b.RollingMean(window), 1, true),
		constantLine(b, 0),
	)
}

// Volatility renders realized vol for each vertex.
func Volatility(c *series.Curve, window int, annualize bool, path string) error {
	title := fmt.Sprintf("Realized Yield Volatility (%dd window)", window)
	unit := "bps"
	if annualize {
		unit = "bps (ann.)"
	}
	return render(title, unit, path,
		timeSeries(c.Vertex(series.US2Y).RealizedVol(window, annualize), 0, false),
		timeSeries(c.Vertex(series.US10Y).RealizedVol(window, annualize), 1, false),
		timeSeries(c.Vertex(series.US30Y).RealizedVol(window, annualize), 2, false),
	)
}

// ZScore renders rolling z-scores per vertex with +/-2 bands.
func ZScore(c *series.Curve, window int, path string) error {
	z2 := c.Vertex(series.US2Y).ZScore(window)
	z10 := c.Vertex(series.US10Y).ZScore(window)
	z30 := c.Vertex(series.US30Y).ZScore(window)

	title := fmt.Sprintf("Yield Z-Scores (%dd window)", window)
	return render(title, "z", path,
		timeSeries(z2, 0, false),
		timeSeries(z10, 1, false),
		timeSeries(z30, 2, false),
		constantLine(z10, 2),
		constantLine(z10, -2),
		constantLine(z10, 0),
	)
}
