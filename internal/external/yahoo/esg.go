package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/esgtrack/internal/esg"
)

// chartEnvelope mirrors the esgChart response shape
type chartEnvelope struct {
	ESGChart struct {
		Result []chartResult `json:"result"`
	} `json:"esgChart"`
}

type chartResult struct {
	SymbolSeries symbolSeries `json:"symbolSeries"`
}

// symbolSeries is columnar: parallel arrays indexed by observation.
// Score entries are null when the provider had no rating for that period.
type symbolSeries struct {
	Timestamp        []int64    `json:"timestamp"`
	ESGScore         []*float64 `json:"esgScore"`
	EnvironmentScore []*float64 `json:"environmentScore"`
	SocialScore      []*float64 `json:"socialScore"`
	GovernanceScore  []*float64 `json:"governanceScore"`
}

// FetchESG fetches the latest ESG scores for a ticker.
// Failures are classified: esg.ErrRateLimited when 429s outlast the retry
// budget, esg.ErrNoESGData when the ticker has no coverage, esg.ErrNetwork
// for everything else. Context cancellation passes through unclassified.
func (c *Client) FetchESG(ctx context.Context, ticker string) (*esg.Record, error) {
	fullURL := fmt.Sprintf("%s/v1/finance/esgChart?symbol=%s", c.baseURL, url.QueryEscape(ticker))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", esg.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", esg.ErrRateLimited, ticker)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d for %s", esg.ErrNetwork, resp.StatusCode, ticker)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", esg.ErrNetwork, err)
	}

	payload := body
	if looksLikeHTML(body) {
		// Consent and quote pages embed the chart payload in a script tag
		payload, err = extractEmbeddedChart(body)
		if err != nil {
			if errors.Is(err, errNoChartPayload) {
				return nil, fmt.Errorf("%w: %s", esg.ErrNoESGData, ticker)
			}
			return nil, fmt.Errorf("%w: %v", esg.ErrNetwork, err)
		}
	}

	var envelope chartEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: parse response for %s: %v", esg.ErrNetwork, ticker, err)
	}

	if len(envelope.ESGChart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", esg.ErrNoESGData, ticker)
	}

	series := envelope.ESGChart.Result[0].SymbolSeries
	if len(series.Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s", esg.ErrNoESGData, ticker)
	}

	rec := buildRecord(ticker, series)
	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"as_of":  rec.Timestamp,
	}).Debug("Fetched ESG scores")
	return rec, nil
}

// buildRecord picks the most recent series point that carries a total score.
// When every point is null the record keeps null scores, never a partial set.
func buildRecord(ticker string, series symbolSeries) *esg.Record {
	rec := &esg.Record{
		Ticker:             ticker,
		LastProcessingDate: time.Now().UTC().Format("2006-01-02"),
	}

	idx := -1
	for i := len(series.Timestamp) - 1; i >= 0; i-- {
		if scoreAt(series.ESGScore, i) != nil {
			idx = i
			break
		}
	}

	if idx == -1 {
		// Coverage exists but no rated period; keep the latest as-of date
		rec.Timestamp = formatTimestamp(series.Timestamp[len(series.Timestamp)-1])
		return rec
	}

	rec.Timestamp = formatTimestamp(series.Timestamp[idx])
	rec.TotalScore = scoreAt(series.ESGScore, idx)
	rec.EnvironmentScore = scoreAt(series.EnvironmentScore, idx)
	rec.SocialScore = scoreAt(series.SocialScore, idx)
	rec.GovernanceScore = scoreAt(series.GovernanceScore, idx)

	// All four populated or all four null
	if rec.EnvironmentScore == nil || rec.SocialScore == nil || rec.GovernanceScore == nil {
		rec.TotalScore = nil
		rec.EnvironmentScore = nil
		rec.SocialScore = nil
		rec.GovernanceScore = nil
	}

	return rec
}

func scoreAt(scores []*float64, idx int) *float64 {
	if idx < 0 || idx >= len(scores) {
		return nil
	}
	return scores[idx]
}

func formatTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02")
}
