package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "esgtrack",
	Short: "esgtrack - historical ESG score collector",
	Long: `esgtrack collects ESG (Environmental, Social, Governance) scores
per stock ticker from Yahoo Finance and appends them to a CSV file.

Usage:
  go run ./cmd/esgtrack [command]

Examples:
  go run ./cmd/esgtrack collect
  go run ./cmd/esgtrack collect --input sp500_tickers.csv --limit 5
  go run ./cmd/esgtrack serve --port 8090
  go run ./cmd/esgtrack schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
