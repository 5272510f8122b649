package esg

import "strconv"

// Record is one ESG score observation for a ticker.
// Either all four scores are populated or all four are nil (no coverage).
type Record struct {
	Ticker             string   `json:"ticker"`
	Timestamp          string   `json:"timestamp"`            // as-of date reported upstream (YYYY-MM-DD), empty if absent
	LastProcessingDate string   `json:"last_processing_date"` // date the score was collected (YYYY-MM-DD)
	TotalScore         *float64 `json:"total_score"`
	EnvironmentScore   *float64 `json:"environment_score"`
	SocialScore        *float64 `json:"social_score"`
	GovernanceScore    *float64 `json:"governance_score"`
}

// Header returns the CSV column names in output order.
func Header() []string {
	return []string{
		"ticker",
		"timestamp",
		"last_processing_date",
		"total_score",
		"environment_score",
		"social_score",
		"governance_score",
	}
}

// Row serializes the record as one CSV row in Header order.
// Nil scores become empty cells.
func (r *Record) Row() []string {
	return []string{
		r.Ticker,
		r.Timestamp,
		r.LastProcessingDate,
		formatScore(r.TotalScore),
		formatScore(r.EnvironmentScore),
		formatScore(r.SocialScore),
		formatScore(r.GovernanceScore),
	}
}

// HasScores reports whether the record carries numeric scores.
func (r *Record) HasScores() bool {
	return r.TotalScore != nil
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseScore(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
