package esg

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/wonny/esgtrack/pkg/logger"
	"github.com/wonny/esgtrack/pkg/metrics"
)

// CSVWriter appends ESG records to a CSV file, one row per record.
// The file is opened in append mode so rows written before a crash survive.
type CSVWriter struct {
	path   string
	file   *os.File
	csv    *csv.Writer
	logger *logger.Logger
}

// NewCSVWriter opens (or creates) the output file. A header row is written
// only when the file is brand new or empty.
func NewCSVWriter(path string, log *logger.Logger) (*CSVWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}

	w := &CSVWriter{
		path:   path,
		file:   file,
		csv:    csv.NewWriter(file),
		logger: log,
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat output file: %w", err)
	}

	if info.Size() == 0 {
		if err := w.writeRow(Header()); err != nil {
			file.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		log.WithField("path", path).Debug("Created output file with header")
	}

	return w, nil
}

// Write appends one record and flushes it to disk immediately,
// so a run that fails partway preserves everything written so far.
func (w *CSVWriter) Write(rec *Record) error {
	if err := w.writeRow(rec.Row()); err != nil {
		return fmt.Errorf("write row for %s: %w", rec.Ticker, err)
	}

	metrics.RecordRowWritten()
	return nil
}

// Close flushes and closes the underlying file
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func (w *CSVWriter) writeRow(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}
