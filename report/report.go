// Package report composes the daily narrative yield reports: a factual
// context block derived from the fetched series, a fixed ten-topic
// prompt for the LLM client, and the final HTML message with counter
// number, date and provider footer.
package report

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/curvewatch/curvewatch/llm"
	"github.com/curvewatch/curvewatch/series"
)

// profile holds the per-maturity prompt material.
type profile struct {
	label      string
	horizon    string
	system     string
	topics     []string
	background []string
}

var profiles = map[series.Maturity]profile{
	series.US2Y: {
		label:   "US2Y",
		horizon: "2-year Treasury",
		system: "You are a senior fixed income portfolio manager focused on " +
			"short-term rates and central bank policy. Write clearly and objectively.",
		topics: []string{
			"Current US2Y level and daily change",
			"Moves tied to monetary policy expectations (Fed)",
			"Front-end positioning and funding markets",
			"Implications for the 2Y-10Y slope (recession vs expansion signal)",
			"Short-duration credit and money market impact",
			"Global risk appetite and flows between equities and bonds",
			"Recent macro backdrop (inflation, employment, activity data)",
			"Institutional views on the path of front-end rates",
			"Executive takeaways (objective bullet points, at most 5 lines)",
			"Conclusion (one paragraph on the short and medium term for US2Y)",
		},
		background: []string{
			"US2Y reflects near-term monetary policy expectations and is highly sensitive to Fed forward guidance.",
			"Moves in US2Y spill over into short-term funding markets and drive the 2Y-10Y slope.",
		},
	},
	series.US10Y: {
		label:   "US10Y",
		horizon: "10-year Treasury",
		system: "You are a senior global fixed income portfolio manager focused on " +
			"US Treasuries. Write clearly and objectively, with emphasis on the yield " +
			"curve, implied inflation, monetary policy and risk appetite in bonds.",
		topics: []string{
			"Current US10Y level and daily change",
			"US yield curve (2Y, 10Y, 30Y): slope and the day's move",
			"Implied inflation and monetary policy expectations (Fed, dot plot, upcoming meetings)",
			"Duration repricing (appetite for long vs short rates)",
			"Credit spreads and the broad impact on IG/HY",
			"Global risk and flows between risk assets and safe havens (equities vs bonds)",
			"Recent macro backdrop (inflation, employment, activity data)",
			"Institutional views (banks, research desks) on the curve trajectory",
			"Executive takeaways (objective bullet points, at most 5 lines)",
			"Conclusion (one paragraph on the short and medium term for US10Y and the Treasury curve)",
		},
		background: []string{
			"US10Y is the global benchmark for the long-term USD risk-free rate.",
			"Its level reflects inflation expectations, term premium and the Fed's policy stance.",
			"The 2Y-10Y and 10Y-30Y slopes matter for reading the cycle (steepening vs flattening).",
		},
	},
	series.US30Y: {
		label:   "US30Y",
		horizon: "30-year Treasury",
		system: "You are a senior fixed income portfolio manager focused on " +
			"long-end rates and term risk. Write clearly and objectively.",
		topics: []string{
			"Current US30Y level and daily change",
			"Term premium and the structural read on the long end",
			"Linkage to structural inflation expectations",
			"Duration demand from pensions and insurers",
			"Supply dynamics (auctions, issuance) at the long end",
			"Global risk appetite and flows between equities and bonds",
			"Recent macro backdrop (inflation, employment, activity data)",
			"Institutional views on the long end of the curve",
			"Executive takeaways (objective bullet points, at most 5 lines)",
			"Conclusion (one paragraph on the short and medium term for US30Y)",
		},
		background: []string{
			"US30Y prices the long end of the curve and is sensitive to structural inflation expectations and term premium.",
			"Moves in US30Y drive the duration of long portfolios and the pricing of long-yield-sensitive assets.",
		},
	},
}

// ContextBlock renders the factual bullet lines handed to the LLM:
// latest level, daily change, observed period and historical range.
func ContextBlock(m series.Maturity, s *series.Series) (string, error) {
	p, ok := profiles[m]
	if !ok {
		return "", fmt.Errorf("report: unknown maturity %q", m)
	}
	if s == nil || s.Len() == 0 {
		return "", fmt.Errorf("report: empty series for %s", p.label)
	}

	last, _ := s.Last()
	var b strings.Builder
	fmt.Fprintf(&b, "- %s (%s): %.2f%% on %s.\n",
		p.label, s.Source, last.Value, last.Date.Format("2006-01-02"))

	if prev, ok := s.Prev(); ok {
		delta := last.Value - prev.Value
		fmt.Fprintf(&b, "- Previous reading: %.2f%% on %s. Daily change: %+.2f pp (%+.1f bps).\n",
			prev.Value, prev.Date.Format("2006-01-02"), delta, delta*100)
	}

	min, max := s.Range()
	fmt.Fprintf(&b, "- Observed period: %s to %s.\n",
		s.Points[0].Date.Format("2006-01-02"), last.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Historical yield range: low %.2f%%, high %.2f%%.\n", min, max)
	for _, line := range p.background {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Prompt builds the fixed ten-topic generation request for a maturity.
func Prompt(m series.Maturity, contextBlock string) (llm.Request, error) {
	p, ok := profiles[m]
	if !ok {
		return llm.Request{}, fmt.Errorf("report: unknown maturity %q", m)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a Daily Report for %s (%s) structured in the 10 topics below.\n",
		p.label, p.horizon)
	b.WriteString("Number them exactly 1 to 10, prose only (no markdown list bullets).\n\n")
	for i, topic := range p.topics {
		fmt.Fprintf(&b, "%d) %s\n", i+1, topic)
	}
	b.WriteString("\nGround the report in the factual context below:\n")
	b.WriteString(contextBlock)

	return llm.Request{
		System:      p.system,
		User:        b.String(),
		Temperature: llm.Float(0.35),
		MaxTokens:   1600,
	}, nil
}

// Result is one generated report, ready for delivery and logging.
type Result struct {
	RunID    string
	Key      string
	Number   int
	Title    string
	Body     string
	HTML     string
	Provider string
	Elapsed  time.Duration
}

// Key returns the counter/sentinel key for a maturity, e.g. "daily_us10y".
func Key(m series.Maturity) string {
	return "daily_" + strings.ToLower(string(m))
}

// Title renders the report headline with counter number and date.
func Title(m series.Maturity, number int, date time.Time) string {
	p := profiles[m]
	return fmt.Sprintf("%s Daily Report - %s - #%d",
		p.label, date.Format("2 January 2006"), number)
}

// Generate runs one report: builds the context block and prompt from
// the series, calls the LLM client, and assembles the HTML message with
// a provider/elapsed footer.
func Generate(ctx context.Context, client *llm.Client, m series.Maturity, s *series.Series, number int, date time.Time) (*Result, error) {
	block, err := ContextBlock(m, s)
	if err != nil {
		return nil, err
	}
	req, err := Prompt(m, block)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	title := Title(m, number, date)
	provider := client.ActiveProvider()
	htmlText := fmt.Sprintf("<b>%s</b>\n\n%s\n\n<i>LLM provider: %s, %.1fs</i>",
		html.EscapeString(title), strings.TrimSpace(body),
		html.EscapeString(provider), elapsed.Seconds())

	return &Result{
		RunID:    uuid.NewString(),
		Key:      Key(m),
		Number:   number,
		Title:    title,
		Body:     strings.TrimSpace(body),
		HTML:     htmlText,
		Provider: provider,
		Elapsed:  elapsed,
	}, nil
}
