package esg

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/wonny/esgtrack/pkg/config"
	"github.com/wonny/esgtrack/pkg/logger"
)

// testLogger returns a quiet logger for tests
func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func floatPtr(v float64) *float64 {
	return &v
}

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return rows
}

func TestCSVWriterCreatesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := NewCSVWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewCSVWriter() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	rows := readAllRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 header row, got %d rows", len(rows))
	}

	want := Header()
	for i, col := range want {
		if rows[0][i] != col {
			t.Errorf("Expected header column %d to be %s, got %s", i, col, rows[0][i])
		}
	}
}

func TestCSVWriterWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := NewCSVWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewCSVWriter() failed: %v", err)
	}

	rec := &Record{
		Ticker:             "AAPL",
		Timestamp:          "2026-08-01",
		LastProcessingDate: "2026-08-23",
		TotalScore:         floatPtr(24.1),
		EnvironmentScore:   floatPtr(3.2),
		SocialScore:        floatPtr(10.5),
		GovernanceScore:    floatPtr(10.4),
	}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	w.Close()

	rows := readAllRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 row, got %d rows", len(rows))
	}

	got := rows[1]
	want := []string{"AAPL", "2026-08-01", "2026-08-23", "24.1", "3.2", "10.5", "10.4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected column %d to be %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCSVWriterNilScoresAreEmptyCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := NewCSVWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewCSVWriter() failed: %v", err)
	}

	rec := &Record{
		Ticker:             "XYZ",
		Timestamp:          "2026-08-01",
		LastProcessingDate: "2026-08-23",
	}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	w.Close()

	rows := readAllRows(t, path)
	got := rows[1]
	for i := 3; i < 7; i++ {
		if got[i] != "" {
			t.Errorf("Expected empty score cell at column %d, got %q", i, got[i])
		}
	}
}

func TestCSVWriterAppendsWithoutSecondHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	// First run
	w1, err := NewCSVWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewCSVWriter() failed: %v", err)
	}
	w1.Write(&Record{Ticker: "AAPL", LastProcessingDate: "2026-08-22"})
	w1.Close()

	// Second run appends to the same file
	w2, err := NewCSVWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewCSVWriter() failed on reopen: %v", err)
	}
	w2.Write(&Record{Ticker: "AAPL", LastProcessingDate: "2026-08-23"})
	w2.Write(&Record{Ticker: "MSFT", LastProcessingDate: "2026-08-23"})
	w2.Close()

	rows := readAllRows(t, path)
	if len(rows) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d rows", len(rows))
	}

	if rows[0][0] != "ticker" {
		t.Errorf("Expected single header row first, got %v", rows[0])
	}

	// Duplicate tickers across runs are kept as separate rows
	if rows[1][0] != "AAPL" || rows[2][0] != "AAPL" || rows[3][0] != "MSFT" {
		t.Errorf("Unexpected row order: %v", rows)
	}
}

func TestReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := NewCSVWriter(path, testLogger())
	if err != nil {
		t.Fatalf("NewCSVWriter() failed: %v", err)
	}
	w.Write(&Record{
		Ticker:             "AAPL",
		Timestamp:          "2026-08-01",
		LastProcessingDate: "2026-08-23",
		TotalScore:         floatPtr(24.1),
		EnvironmentScore:   floatPtr(3.2),
		SocialScore:        floatPtr(10.5),
		GovernanceScore:    floatPtr(10.4),
	})
	w.Write(&Record{Ticker: "XYZ", LastProcessingDate: "2026-08-23"})
	w.Close()

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Ticker != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %s", first.Ticker)
	}
	if first.TotalScore == nil || *first.TotalScore != 24.1 {
		t.Errorf("Expected total score 24.1, got %v", first.TotalScore)
	}
	if !first.HasScores() {
		t.Error("Expected first record to have scores")
	}

	second := records[1]
	if second.TotalScore != nil {
		t.Errorf("Expected nil total score, got %v", second.TotalScore)
	}
	if second.HasScores() {
		t.Error("Expected second record to have no scores")
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	records, err := ReadRecords(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("ReadRecords() failed: %v", err)
	}

	if len(records) != 0 {
		t.Errorf("Expected empty slice for missing file, got %d records", len(records))
	}
}
