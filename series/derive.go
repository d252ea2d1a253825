package series

import (
	"fmt"
	"math"
	"time"
)

// TradingDaysPerYear is the annualization base for realized volatility.
const TradingDaysPerYear = 252

// Spread names follow the market convention long-minus-short.
const (
	Spread10s2s  = "10y-2y"
	Spread30s2s  = "30y-2y"
	Spread30s10s = "30y-10y"
)

// Spread returns long - short on the aligned curve, in percentage points.
func (c *Curve) Spread(long, short Maturity) *Series {
	s := &Series{Name: fmt.Sprintf("%s-%s", long, short)}
	lv, sv := c.Values[long], c.Values[short]
	for i, d := range c.Dates {
		s.Points = append(s.Points, Point{Date: d, Value: lv[i] - sv[i]})
	}
	return s
}

// Spreads returns the three standard curve spreads keyed by name.
func (c *Curve) Spreads() map[string]*Series {
	return map[string]*Series{
		Spread10s2s:  c.Spread(US10Y, US2Y),
		Spread30s2s:  c.Spread(US30Y, US2Y),
		Spread30s10s: c.Spread(US30Y, US10Y),
	}
}

// Butterfly returns 30Y - 2x10Y + 2Y, the standard curvature measure.
func (c *Curve) Butterfly() *Series {
	s := &Series{Name: "butterfly"}
	v2, v10, v30 := c.Values[US2Y], c.Values[US10Y], c.Values[US30Y]
	for i, d := range c.Dates {
		s.Points = append(s.Points, Point{Date: d, Value: v30[i] - 2.0*v10[i] + v2[i]})
	}
	return s
}

// RollingMean returns the simple moving average over window observations,
// with a minimum period of one (the head of the series averages what is
// available so far).
func (s *Series) RollingMean(window int) *Series {
	out := &Series{Name: fmt.Sprintf("%s_ma%d", s.Name, window)}
	var sum float64
	for i, p := range s.Points {
		sum += p.Value
		if i >= window {
			sum -= s.Points[i-window].Value
		}
		n := i + 1
		if n > window {
			n = window
		}
		out.Points = append(out.Points, Point{Date: p.Date, Value: sum / float64(n)})
	}
	return out
}

// EMA returns the exponential moving average with the given span,
// alpha = 2/(span+1), seeded from the first observation.
func (s *Series) EMA(span int) *Series {
	out := &Series{Name: fmt.Sprintf("%s_ema%d", s.Name, span)}
	if len(s.Points) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := s.Points[0].Value
	out.Points = append(out.Points, Point{Date: s.Points[0].Date, Value: ema})
	for _, p := range s.Points[1:] {
		ema = alpha*p.Value + (1-alpha)*ema
		out.Points = append(out.Points, Point{Date: p.Date, Value: ema})
	}
	return out
}

// rollingStd computes the sample standard deviation over the trailing
// window at each index, requiring at least two observations.
func rollingStd(points []Point, window int) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		n := i - lo + 1
		if n < 2 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for _, p := range points[lo : i+1] {
			sum += p.Value
		}
		mean := sum / float64(n)
		var ss float64
		for _, p := range points[lo : i+1] {
			d := p.Value - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(n-1))
	}
	return out
}

// RealizedVol returns the rolling standard deviation of daily yield
// changes expressed in basis points. With annualize, values are scaled
// by sqrt(252). The first window's partial values are emitted as soon as two
// deltas exist.
func (s *Series) RealizedVol(window int, annualize bool) *Series {
	out := &Series{Name: fmt.Sprintf("%s_vol%d", s.Name, window)}
	if len(s.Points) < 2 {
		return out
	}

	deltas := make([]Point, 0, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		deltas = append(deltas, Point{
			Date:  s.Points[i].Date,
			Value: (s.Points[i].Value - s.Points[i-1].Value) * 100.0,
		})
	}

	stds := rollingStd(deltas, window)
	scale := 1.0
	if annualize {
		scale = math.Sqrt(TradingDaysPerYear)
	}
	for i, d := range deltas {
		if math.IsNaN(stds[i]) {
			continue
		}
		out.Points = append(out.Points, Point{Date: d.Date, Value: stds[i] * scale})
	}
	return out
}

// ZScore returns (x - rolling mean)/rolling std over the given window.
// Indices whose trailing window has fewer than two observations are
// omitted.
func (s *Series) ZScore(window int) *Series {
	out := &Series{Name: fmt.Sprintf("%s_z%d", s.Name, window)}
	means := s.RollingMean(window)
	stds := rollingStd(s.Points, window)
	for i, p := range s.Points {
		if math.IsNaN(stds[i]) || stds[i] == 0 {
			continue
		}
		z := (p.Value - means.Points[i].Value) / stds[i]
		out.Points = append(out.Points, Point{Date: p.Date, Value: z})
	}
	return out
}

// Span is a contiguous date interval.
type Span struct {
	Start time.Time
	End   time.Time
}

// InversionSpans returns the intervals where the series is negative,
// used to shade inverted-curve periods on spread charts.
func (s *Series) InversionSpans() []Span {
	var spans []Span
	var open *Span
	for _, p := range s.Points {
		if p.Value < 0 {
			if open == nil {
				open = &Span{Start: p.Date}
			}
			open.End = p.Date
			continue
		}
		if open != nil {
			spans = append(spans, *open)
			open = nil
		}
	}
	if open != nil {
		spans = append(spans, *open)
	}
	return spans
}
