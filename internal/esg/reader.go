package esg

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadRecords loads all rows from an output CSV produced by CSVWriter.
// A missing file yields an empty slice, not an error, so the API can
// serve before the first collection run.
func ReadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Header())

	records := make([]Record, 0)
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read output file: %w", err)
		}

		// Skip header
		if first {
			first = false
			if row[0] == "ticker" {
				continue
			}
		}

		records = append(records, Record{
			Ticker:             row[0],
			Timestamp:          row[1],
			LastProcessingDate: row[2],
			TotalScore:         parseScore(row[3]),
			EnvironmentScore:   parseScore(row[4]),
			SocialScore:        parseScore(row[5]),
			GovernanceScore:    parseScore(row[6]),
		})
	}

	return records, nil
}
