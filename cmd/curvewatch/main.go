// curvewatch
//
// A toolkit for watching the US Treasury yield curve: fetches 2Y/10Y/30Y
// constant maturity yields from FRED, derives curve analytics, renders
// charts, and composes daily narrative reports through a multi-provider
// LLM client with ordered fallback.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "curvewatch",
	Short: "curvewatch - US Treasury yield curve watcher",
	Long: `curvewatch fetches US Treasury yields from FRED, derives curve
analytics and composes daily LLM-written reports.

  curvewatch config set FRED_API_KEY xxx     Store a config value
  curvewatch fetch --series US10Y            Fetch one series to CSV + cache
  curvewatch plot --view spreads             Render a chart view
  curvewatch report --maturity US10Y --send  Generate and deliver a report
  curvewatch serve                           Serve cached data and charts`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
