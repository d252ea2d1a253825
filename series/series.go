// Package series holds yield time series in memory and derives curve
// analytics (spreads, butterfly, realized volatility, z-scores) from them.
package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Maturity identifies a curve vertex. The mapping from data-source series
// IDs to maturities is always explicit; nothing is inferred from column
// names.
type Maturity string

const (
	US2Y  Maturity = "US2Y"
	US10Y Maturity = "US10Y"
	US30Y Maturity = "US30Y"
)

// Point is one dated observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is one named, date-ordered yield series.
type Series struct {
	Name   string
	Source string
	Points []Point
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.Points) }

// Last returns the most recent observation.
func (s *Series) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Prev returns the second most recent observation.
func (s *Series) Prev() (Point, bool) {
	if len(s.Points) < 2 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-2], true
}

// Range returns the minimum and maximum values.
func (s *Series) Range() (min, max float64) {
	if len(s.Points) == 0 {
		return 0, 0
	}
	min, max = s.Points[0].Value, s.Points[0].Value
	for _, p := range s.Points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	return min, max
}

// Between returns a copy restricted to [start, end]. Zero times mean
// unbounded on that side.
func (s *Series) Between(start, end time.Time) *Series {
	out := &Series{Name: s.Name, Source: s.Source}
	for _, p := range s.Points {
		if !start.IsZero() && p.Date.Before(start) {
			continue
		}
		if !end.IsZero() && p.Date.After(end) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

// LastMonths returns a copy restricted to the trailing n months from the
// final observation.
func (s *Series) LastMonths(n int) *Series {
	last, ok := s.Last()
	if !ok {
		return &Series{Name: s.Name, Source: s.Source}
	}
	return s.Between(last.Date.AddDate(0, -n, 0), time.Time{})
}

// WriteCSV writes the series as date,yield_pct,source rows, creating
// parent directories as needed.
func (s *Series) WriteCSV(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "yield_pct", "source"}); err != nil {
		return err
	}
	for _, p := range s.Points {
		row := []string{
			p.Date.Format("2006-01-02"),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
			s.Source,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV loads a series from a date,yield_pct,source CSV. The series
// name comes from the source tag's suffix after ":" when present,
// otherwise from the file name.
func ReadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := rows[0]
	dateCol, valueCol, sourceCol := -1, -1, -1
	for i, h := range header {
		switch h {
		case "date":
			dateCol = i
		case "yield_pct":
			valueCol = i
		case "source":
			sourceCol = i
		}
	}
	if dateCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("%s: missing date/yield_pct columns", path)
	}

	s := &Series{}
	for _, row := range rows[1:] {
		d, err := time.Parse("2006-01-02", row[dateCol])
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(row[valueCol], 64)
		if err != nil {
			continue
		}
		s.Points = append(s.Points, Point{Date: d, Value: v})
		if s.Source == "" && sourceCol >= 0 {
			s.Source = row[sourceCol]
		}
	}

	if s.Source != "" {
		s.Name = s.Source
		if i := strings.LastIndexByte(s.Source, ':'); i >= 0 {
			s.Name = s.Source[i+1:]
		}
	}
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = base[:len(base)-len(filepath.Ext(base))]
	}

	sort.Slice(s.Points, func(i, j int) bool {
		return s.Points[i].Date.Before(s.Points[j].Date)
	})
	return s, nil
}

// Curve is the three curve vertices aligned on common dates.
type Curve struct {
	Dates []time.Time
	// Values maps each maturity to a slice parallel to Dates.
	Values map[Maturity][]float64
}

// AlignCurve inner-joins the three vertex series on date. Only dates
// present in all three series are kept; dates stay ascending.
func AlignCurve(us2y, us10y, us30y *Series) (*Curve, error) {
	if us2y.Len() == 0 || us10y.Len() == 0 || us30y.Len() == 0 {
		return nil, fmt.Errorf("aligning curve: empty input series")
	}

	byDate := func(s *Series) map[time.Time]float64 {
		m := make(map[time.Time]float64, s.Len())
		for _, p := range s.Points {
			m[p.Date] = p.Value
		}
		return m
	}
	m10 := byDate(us10y)
	m30 := byDate(us30y)

	c := &Curve{Values: map[Maturity][]float64{}}
	for _, p := range us2y.Points {
		v10, ok10 := m10[p.Date]
		v30, ok30 := m30[p.Date]
		if !ok10 || !ok30 {
			continue
		}
		c.Dates = append(c.Dates, p.Date)
		c.Values[US2Y] = append(c.Values[US2Y], p.Value)
		c.Values[US10Y] = append(c.Values[US10Y], v10)
		c.Values[US30Y] = append(c.Values[US30Y], v30)
	}

	if len(c.Dates) == 0 {
		return nil, fmt.Errorf("aligning curve: no overlapping dates")
	}
	return c, nil
}

// Vertex returns one maturity of the curve as a Series.
func (c *Curve) Vertex(m Maturity) *Series {
	s := &Series{Name: string(m)}
	for i, d := range c.Dates {
		s.Points = append(s.Points, Point{Date: d, Value: c.Values[m][i]})
	}
	return s
}

// LastMonths trims the curve to the n months preceding its final date.
// The counterpart of Series.LastMonths for already aligned data.
func (c *Curve) LastMonths(n int) *Curve {
	if len(c.Dates) == 0 || n <= 0 {
		return c
	}
	cutoff := c.Dates[len(c.Dates)-1].AddDate(0, -n, 0)
	i := 0
	for i < len(c.Dates) && c.Dates[i].Before(cutoff) {
		i++
	}
	out := &Curve{Dates: c.Dates[i:], Values: make(map[Maturity][]float64, len(c.Values))}
	for m, vs := range c.Values {
		out.Values[m] = vs[i:]
	}
	return out
}
