package esg

import "errors"

// Failure taxonomy for a collection run. Input errors are fatal;
// the per-ticker errors are caught at the loop boundary and logged.
var (
	// ErrInputNotFound means the ticker list file does not exist. Fatal.
	ErrInputNotFound = errors.New("esg: input file not found")

	// ErrEmptyInput means the ticker list has zero usable symbols. Fatal.
	ErrEmptyInput = errors.New("esg: input file contains no tickers")

	// ErrRateLimited means the upstream kept answering 429 past the retry budget.
	ErrRateLimited = errors.New("esg: rate limited by upstream")

	// ErrNetwork covers transport errors, unexpected statuses and unparseable bodies.
	ErrNetwork = errors.New("esg: network error")

	// ErrNoESGData means the upstream has no ESG coverage for the ticker. Benign.
	ErrNoESGData = errors.New("esg: no ESG data for ticker")
)
