// Package tickers reads the ticker list that drives a collection run.
package tickers

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/wonny/esgtrack/internal/esg"
)

// Load reads ticker symbols from a flat file, one per line, no header.
// Blank lines are skipped, symbols are trimmed, and duplicates are dropped
// while preserving input order. A missing file or an empty result is fatal.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", esg.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	defer file.Close()

	seen := make(map[string]bool)
	symbols := make([]string, 0)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		symbol := strings.TrimSpace(scanner.Text())
		if symbol == "" {
			continue
		}
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file %s: %w", path, err)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: %s", esg.ErrEmptyInput, path)
	}

	return symbols, nil
}
