package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/curvewatch/curvewatch/chart"
	"github.com/curvewatch/curvewatch/internal/config"
	"github.com/curvewatch/curvewatch/store/sqlite"
)

var (
	plotView      string
	plotStart     string
	plotMonths    int
	plotWindow    int
	plotEMA       bool
	plotAnnualize bool
	plotOut       string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a yield curve chart",
	Long: `Render one chart view as PNG from the cached observations.

Views:
  yields      2Y, 10Y and 30Y yield levels
  panels      one chart per maturity, separate PNG each
  spreads     10y-2y, 30y-2y and 30y-10y spreads with inversion spans
  butterfly   30Y - 2*10Y + 2Y with moving average
  volatility  rolling realized volatility of daily changes (bps)
  zscore      rolling z-score of the 10Y level with +/-2 bands

Pass --months 12 for the trailing-year presets of any view.`,
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotView, "view", "yields", "Chart view: yields, panels, spreads, butterfly, volatility, zscore")
	plotCmd.Flags().StringVar(&plotStart, "start", "", "Start date YYYY-MM-DD (default full cached history)")
	plotCmd.Flags().IntVar(&plotMonths, "months", 0, "Keep only the trailing N months of data")
	plotCmd.Flags().IntVar(&plotWindow, "window", 0, "Rolling window in trading days (default per view)")
	plotCmd.Flags().BoolVar(&plotEMA, "ema", false, "Overlay EMA smoothing on the spreads view")
	plotCmd.Flags().BoolVar(&plotAnnualize, "annualize", false, "Annualize realized volatility by sqrt(252)")
	plotCmd.Flags().StringVar(&plotOut, "out", "", "Output PNG path, or directory for the panels view (default chart dir)")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	curve, err := loadCurve(store, plotStart)
	if err != nil {
		return err
	}
	if plotMonths > 0 {
		curve = curve.LastMonths(plotMonths)
	}

	if plotView == "panels" {
		dir := plotOut
		if dir == "" {
			dir = cfg.ChartDir
		}
		paths, err := chart.YieldPanels(curve, dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("panels chart -> %s\n", p)
		}
		return nil
	}

	out := plotOut
	if out == "" {
		out = filepath.Join(cfg.ChartDir, plotView+".png")
	}

	window := plotWindow
	switch plotView {
	case "yields":
		err = chart.Yields(curve, out)
	case "spreads":
		if window == 0 {
			window = 30
		}
		err = chart.Spreads(curve, window, plotEMA, out)
	case "butterfly":
		if window == 0 {
			window = 30
		}
		err = chart.Butterfly(curve, window, out)
	case "volatility":
		if window == 0 {
			window = 30
		}
		err = chart.Volatility(curve, window, plotAnnualize, out)
	case "zscore":
		if window == 0 {
			window = 252
		}
		err = chart.ZScore(curve, window, out)
	default:
		return fmt.Errorf("unknown view %q", plotView)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s chart -> %s\n", plotView, out)
	return nil
}
