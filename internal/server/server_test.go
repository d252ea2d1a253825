package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/curvewatch/curvewatch/internal/config"
	"github.com/curvewatch/curvewatch/series"
	"github.com/curvewatch/curvewatch/store/sqlite"
)

func newTestServer(t *testing.T) (*Server, *sqlite.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		ServerAddr: ":0",
		ChartDir:   filepath.Join(dir, "charts"),
	}
	return New(cfg, store), store
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGetSeries(t *testing.T) {
	srv, store := newTestServer(t)

	s := &series.Series{Name: "DGS10", Source: "FRED:DGS10"}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.Points = append(s.Points, series.Point{Date: start.AddDate(0, 0, i), Value: 4.0})
	}
	if err := store.PutSeries(s); err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv, "/api/series/DGS10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp seriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SeriesID != "DGS10" || len(resp.Observations) != 5 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Observations[0].Date != "2024-01-02" {
		t.Errorf("first date = %q", resp.Observations[0].Date)
	}

	// Date filter.
	rec = get(t, srv, "/api/series/DGS10?start=2024-01-05")
	resp = seriesResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Observations) != 2 {
		t.Errorf("filtered observations = %d, want 2", len(resp.Observations))
	}
}

func TestGetSeriesErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := get(t, srv, "/api/series/DGS10?start=nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad start date: status = %d, want 400", rec.Code)
	}
	if rec := get(t, srv, "/api/series/DGS10"); rec.Code != http.StatusNotFound {
		t.Errorf("empty cache: status = %d, want 404", rec.Code)
	}
}

func TestLatestReport(t *testing.T) {
	srv, store := newTestServer(t)

	if rec := get(t, srv, "/api/reports/latest"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing key: status = %d, want 400", rec.Code)
	}
	if rec := get(t, srv, "/api/reports/latest?key=daily_us10y"); rec.Code != http.StatusNotFound {
		t.Errorf("no reports: status = %d, want 404", rec.Code)
	}

	err := store.AddReport(&sqlite.Report{
		ID: "r1", Key: "daily_us10y", Number: 7,
		Title: "US10Y Daily Report #7", Provider: "groq", Body: "the body",
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv, "/api/reports/latest?key=daily_us10y")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rep sqlite.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Number != 7 || rep.Provider != "groq" {
		t.Errorf("report = %+v", rep)
	}
}

func TestChartsStatic(t *testing.T) {
	srv, _ := newTestServer(t)

	chartDir := srv.config.ChartDir
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(chartDir, "yields.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := get(t, srv, "/charts/yields.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "png-bytes") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
