package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/curvewatch/curvewatch/fred"
	"github.com/curvewatch/curvewatch/internal/config"
	"github.com/curvewatch/curvewatch/series"
	"github.com/curvewatch/curvewatch/store/sqlite"
)

// maturitySeries maps the maturity labels to FRED series identifiers.
var maturitySeries = map[series.Maturity]string{
	series.US2Y:  fred.SeriesUS2Y,
	series.US10Y: fred.SeriesUS10Y,
	series.US30Y: fred.SeriesUS30Y,
}

// parseMaturity resolves a CLI maturity argument like "us10y" or "US10Y".
func parseMaturity(arg string) (series.Maturity, error) {
	m := series.Maturity(strings.ToUpper(strings.TrimSpace(arg)))
	if _, ok := maturitySeries[m]; !ok {
		return "", fmt.Errorf("unknown maturity %q (want US2Y, US10Y or US30Y)", arg)
	}
	return m, nil
}

var (
	fetchSeriesArg string
	fetchStart     string
	fetchOutDir    string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch Treasury yield series from FRED",
	Long: `Fetch one or all Treasury constant maturity series from the FRED
observations API, write them as CSV and update the local cache.

  curvewatch fetch --series US10Y
  curvewatch fetch --series all --start 2010-01-01`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSeriesArg, "series", "all", "Maturity to fetch: US2Y, US10Y, US30Y or all")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "2000-01-01", "Observation start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchOutDir, "out", "", "CSV output directory (default <data dir>/csv)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var maturities []series.Maturity
	if strings.EqualFold(fetchSeriesArg, "all") {
		maturities = []series.Maturity{series.US2Y, series.US10Y, series.US30Y}
	} else {
		m, err := parseMaturity(fetchSeriesArg)
		if err != nil {
			return err
		}
		maturities = []series.Maturity{m}
	}

	outDir := fetchOutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.DataDir, "csv")
	}

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	client := fred.New(cfg.FREDAPIKey, cfg.FREDBaseURL)
	ctx := cmd.Context()

	for _, m := range maturities {
		seriesID := maturitySeries[m]
		s, err := client.FetchSeries(ctx, seriesID, fetchStart)
		if err != nil {
			return err
		}
		log.Printf("[fetch] %s: %d observations", seriesID, s.Len())

		csvPath := filepath.Join(outDir, strings.ToLower(seriesID)+".csv")
		if err := s.WriteCSV(csvPath); err != nil {
			return err
		}
		if err := store.PutSeries(s); err != nil {
			return err
		}
		fmt.Printf("%s: %d observations -> %s\n", m, s.Len(), csvPath)
	}
	return nil
}

// loadCurve assembles the aligned three-maturity curve from the cache.
func loadCurve(store *sqlite.Store, start string) (*series.Curve, error) {
	var vertices [3]*series.Series
	for i, m := range []series.Maturity{series.US2Y, series.US10Y, series.US30Y} {
		seriesID := maturitySeries[m]
		s, err := store.GetSeries(seriesID, parseDateOrZero(start))
		if err != nil {
			return nil, err
		}
		if s.Len() == 0 {
			return nil, fmt.Errorf("no cached observations for %s; run `curvewatch fetch` first", seriesID)
		}
		vertices[i] = s
	}
	return series.AlignCurve(vertices[0], vertices[1], vertices[2])
}

// parseDateOrZero parses YYYY-MM-DD, returning the zero time for empty
// or malformed input so the cache query covers the full history.
func parseDateOrZero(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
