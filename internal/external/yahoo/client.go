// Package yahoo fetches ESG score data from the Yahoo Finance esgChart endpoint.
package yahoo

import (
	"strings"

	"github.com/wonny/esgtrack/pkg/httputil"
	"github.com/wonny/esgtrack/pkg/logger"
)

// browserHeaders present the client as an ordinary browser.
// Without these the endpoint blocks the request.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Cache-Control":             "max-age=0",
}

// Client handles communication with Yahoo Finance
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient.WithHeaders(browserHeaders),
		logger:     log,
		baseURL:    "https://query2.finance.yahoo.com",
	}
}

// WithBaseURL overrides the endpoint base URL (used by tests)
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}
