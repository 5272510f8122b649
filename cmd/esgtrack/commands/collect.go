package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/esgtrack/internal/esg"
	"github.com/wonny/esgtrack/internal/external/yahoo"
	"github.com/wonny/esgtrack/internal/tickers"
	"github.com/wonny/esgtrack/pkg/config"
	"github.com/wonny/esgtrack/pkg/httputil"
	"github.com/wonny/esgtrack/pkg/logger"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one ESG collection pass",
	Long: `Reads the ticker list, fetches the latest ESG scores for each
ticker from Yahoo Finance and appends one CSV row per ticker.

Tickers without ESG coverage or with transient failures are skipped;
the run only aborts when the input file is unusable or the output
file cannot be written.

Example:
  go run ./cmd/esgtrack collect
  go run ./cmd/esgtrack collect --input sp500_tickers.csv --output historical_esg_data.csv
  go run ./cmd/esgtrack collect --limit 5`,
	RunE: runCollect,
}

var (
	collectInput  string
	collectOutput string
	collectLimit  int
)

func init() {
	rootCmd.AddCommand(collectCmd)

	// Flags
	collectCmd.Flags().StringVar(&collectInput, "input", "", "ticker list file (one symbol per line)")
	collectCmd.Flags().StringVar(&collectOutput, "output", "", "output CSV file")
	collectCmd.Flags().IntVar(&collectLimit, "limit", 0, "process only the first N tickers (0 = all)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== esgtrack collect ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override config if flags are set
	if collectInput != "" {
		cfg.Input.Path = collectInput
	}
	if collectOutput != "" {
		cfg.Output.Path = collectOutput
	}
	if collectLimit > 0 {
		cfg.Collect.Limit = collectLimit
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// Cancel the run on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runCollection(ctx, cfg, log)
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Collection finished: %d/%d tickers processed", summary.Processed, summary.Total)
	if summary.NoCoverage > 0 {
		fmt.Printf(", %d without ESG coverage", summary.NoCoverage)
	}
	if summary.Skipped > 0 {
		fmt.Printf(", %d skipped on errors", summary.Skipped)
	}
	fmt.Println()

	return nil
}

// runCollection wires the client, reader and writer together and runs
// one full collection pass. Shared by the collect, serve and schedule
// commands.
func runCollection(ctx context.Context, cfg *config.Config, log *logger.Logger) (esg.Summary, error) {
	// 1. Create HTTP client
	httpClient := httputil.New(cfg, log)

	// 2. Create Yahoo Finance client
	yahooClient := yahoo.NewClient(httpClient, log)
	if cfg.Yahoo.BaseURL != "" {
		yahooClient = yahooClient.WithBaseURL(cfg.Yahoo.BaseURL)
	}

	// 3. Load ticker list
	symbols, err := tickers.Load(cfg.Input.Path)
	if err != nil {
		return esg.Summary{}, err
	}

	if cfg.Collect.Limit > 0 && cfg.Collect.Limit < len(symbols) {
		log.WithFields(map[string]interface{}{
			"limit": cfg.Collect.Limit,
			"total": len(symbols),
		}).Info("Limiting ticker list")
		symbols = symbols[:cfg.Collect.Limit]
	}

	// 4. Open output writer
	writer, err := esg.NewCSVWriter(cfg.Output.Path, log)
	if err != nil {
		return esg.Summary{}, err
	}
	defer writer.Close()

	// 5. Run collector
	col := esg.NewCollector(yahooClient, writer, esg.Config{
		MinDelay: cfg.Collect.MinDelay,
		MaxDelay: cfg.Collect.MaxDelay,
	}, log)

	return col.Run(ctx, symbols)
}
