// Package handlers implements the HTTP API handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/wonny/esgtrack/internal/esg"
	"github.com/wonny/esgtrack/pkg/logger"
)

// RunFunc executes one full collection pass and returns its summary.
type RunFunc func(ctx context.Context) (esg.Summary, error)

// ESGHandler serves collected ESG rows and triggers collection runs
type ESGHandler struct {
	outputPath string
	runCollect RunFunc
	logger     *logger.Logger

	// The output file has a single writer; one run at a time
	running bool
	mu      sync.Mutex
}

// NewESGHandler creates a new ESG handler
func NewESGHandler(outputPath string, runCollect RunFunc, log *logger.Logger) *ESGHandler {
	return &ESGHandler{
		outputPath: outputPath,
		runCollect: runCollect,
		logger:     log,
	}
}

// GetAll returns every collected row
// GET /api/esg
func (h *ESGHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	records, err := esg.ReadRecords(h.outputPath)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read ESG records")
		respondError(w, http.StatusInternalServerError, "Failed to read ESG records")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GetTicker returns the collected rows for one ticker
// GET /api/esg/{ticker}
func (h *ESGHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	records, err := esg.ReadRecords(h.outputPath)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read ESG records")
		respondError(w, http.StatusInternalServerError, "Failed to read ESG records")
		return
	}

	matched := make([]esg.Record, 0)
	for _, rec := range records {
		if strings.EqualFold(rec.Ticker, ticker) {
			matched = append(matched, rec)
		}
	}

	if len(matched) == 0 {
		respondError(w, http.StatusNotFound, "No ESG data for ticker "+ticker)
		return
	}

	respondJSON(w, http.StatusOK, matched)
}

// Collect triggers a collection run in the background
// POST /api/collect
func (h *ESGHandler) Collect(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		respondError(w, http.StatusConflict, "A collection run is already in progress")
		return
	}
	h.running = true
	h.mu.Unlock()

	h.logger.Info("Collection run triggered via API")

	go func() {
		defer func() {
			h.mu.Lock()
			h.running = false
			h.mu.Unlock()
		}()

		summary, err := h.runCollect(context.Background())
		if err != nil {
			h.logger.WithError(err).Error("Triggered collection run failed")
			return
		}

		h.logger.WithFields(map[string]interface{}{
			"processed": summary.Processed,
			"skipped":   summary.Skipped,
		}).Info("Triggered collection run finished")
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "started",
		"message": "Collection run started",
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
