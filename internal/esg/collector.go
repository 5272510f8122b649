package esg

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/wonny/esgtrack/pkg/logger"
	"github.com/wonny/esgtrack/pkg/metrics"
)

// Fetcher fetches the ESG record for a single ticker.
type Fetcher interface {
	FetchESG(ctx context.Context, ticker string) (*Record, error)
}

// RowWriter appends one record to the persistent output.
type RowWriter interface {
	Write(rec *Record) error
}

// Config holds collector configuration
type Config struct {
	// Sleep between tickers is uniform in [MinDelay, MaxDelay]
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Summary is the outcome of a collection run
type Summary struct {
	Total      int `json:"total"`
	Processed  int `json:"processed"`
	Skipped    int `json:"skipped"`
	NoCoverage int `json:"no_coverage"`
}

// Collector drives the sequential fetch-write loop over a ticker list.
// Per-ticker failures are logged and skipped; only write failures abort the run.
type Collector struct {
	fetcher Fetcher
	writer  RowWriter
	logger  *logger.Logger
	cfg     Config
	rng     *rand.Rand

	// sleep is swappable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a new Collector instance
func NewCollector(fetcher Fetcher, writer RowWriter, cfg Config, log *logger.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		writer:  writer,
		logger:  log.WithField("module", "collector"),
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepWithContext,
	}
}

// Run processes tickers in order. Output rows appear in input order
// restricted to successful tickers. The returned error is non-nil only
// for fatal conditions (context cancelled, output write failed).
func (c *Collector) Run(ctx context.Context, tickers []string) (Summary, error) {
	summary := Summary{Total: len(tickers)}

	c.logger.WithField("tickers", len(tickers)).Info("Starting ESG collection")

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, err := c.fetcher.FetchESG(ctx, ticker)
		switch {
		case err == nil:
			if werr := c.writer.Write(rec); werr != nil {
				// Disk full / permission denied: every later write fails too
				return summary, fmt.Errorf("write record for %s: %w", ticker, werr)
			}
			summary.Processed++
			metrics.RecordTickerProcessed()
			c.logger.WithFields(map[string]interface{}{
				"ticker":   ticker,
				"progress": fmt.Sprintf("%d/%d", i+1, len(tickers)),
			}).Info("Ticker processed")

		case errors.Is(err, ErrNoESGData):
			summary.NoCoverage++
			metrics.RecordTickerSkipped("no_esg_data")
			c.logger.WithFields(map[string]interface{}{
				"ticker":   ticker,
				"progress": fmt.Sprintf("%d/%d", i+1, len(tickers)),
			}).Debug("No ESG coverage for ticker")

		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return summary, err

		default:
			summary.Skipped++
			metrics.RecordTickerSkipped(skipReason(err))
			c.logger.WithFields(map[string]interface{}{
				"ticker":   ticker,
				"reason":   skipReason(err),
				"error":    err.Error(),
				"progress": fmt.Sprintf("%d/%d", i+1, len(tickers)),
			}).Warn("Ticker skipped")
		}

		// Randomized delay between requests to stay under upstream rate limits
		if i < len(tickers)-1 {
			if serr := c.sleep(ctx, c.randomDelay()); serr != nil {
				return summary, serr
			}
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"total":       summary.Total,
		"processed":   summary.Processed,
		"skipped":     summary.Skipped,
		"no_coverage": summary.NoCoverage,
	}).Info("ESG collection completed")

	return summary, nil
}

func (c *Collector) randomDelay() time.Duration {
	if c.cfg.MaxDelay <= c.cfg.MinDelay {
		return c.cfg.MinDelay
	}
	jitter := time.Duration(c.rng.Int63n(int64(c.cfg.MaxDelay - c.cfg.MinDelay)))
	return c.cfg.MinDelay + jitter
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	default:
		return "unknown"
	}
}

// sleepWithContext blocks for the delay or until the context is done
func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
