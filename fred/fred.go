// Package fred fetches economic time series from the FRED
// (Federal Reserve Economic Data) observations API.
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/curvewatch/curvewatch/series"
)

// DefaultBaseURL is the FRED series/observations endpoint.
const DefaultBaseURL = "https://api.stlouisfed.org/fred/series/observations"

// Treasury constant maturity series identifiers.
const (
	SeriesUS2Y  = "DGS2"
	SeriesUS10Y = "DGS10"
	SeriesUS30Y = "DGS30"
)

// Client calls the FRED observations API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a FRED client. baseURL may be empty to use the default.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchSeries retrieves one series from start onward as a date-sorted
// series of yield points. FRED reports missing trading days with the
// value "."; those observations are dropped. The returned series carries
// a "FRED:<seriesID>" source tag.
func (c *Client) FetchSeries(ctx context.Context, seriesID, start string) (*series.Series, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fred: FRED_API_KEY not set")
	}

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	if start != "" {
		q.Set("observation_start", start)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred: API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed observationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("fred: unexpected response: %s", string(body))
	}

	s := &series.Series{
		Name:   seriesID,
		Source: "FRED:" + seriesID,
	}
	for _, obs := range parsed.Observations {
		if obs.Value == "" || obs.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		d, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		s.Points = append(s.Points, series.Point{Date: d, Value: v})
	}

	sort.Slice(s.Points, func(i, j int) bool {
		return s.Points[i].Date.Before(s.Points[j].Date)
	})
	return s, nil
}
