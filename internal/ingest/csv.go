// Package ingest reads brokerage CSV exports into string-keyed records.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	apperrors "options-tracker/internal/errors"
)

// Record is one CSV row keyed by header name.
type Record map[string]string

// Batch is the result of reading one export file.
type Batch struct {
	Headers []string
	Records []Record
}

// ReadFile reads a CSV export from disk.
func ReadFile(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIngestError(path, "opening file", err)
	}
	defer f.Close()

	batch, err := Read(f)
	if err != nil {
		return nil, apperrors.NewIngestError(path, "reading csv", err)
	}
	return batch, nil
}

// Read reads CSV data from r. The first row is treated as the header.
// Blank rows and rows shorter than the header are skipped.
func Read(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.ErrNoRecords
	}
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(stripBOM(h))
	}

	batch := &Batch{Headers: headers}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlank(row) {
			continue
		}

		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		batch.Records = append(batch.Records, rec)
	}

	if len(batch.Records) == 0 {
		return nil, apperrors.ErrNoRecords
	}
	return batch, nil
}

// HasHeaders reports whether the batch contains every named header.
func (b *Batch) HasHeaders(names ...string) bool {
	set := make(map[string]struct{}, len(b.Headers))
	for _, h := range b.Headers {
		set[h] = struct{}{}
	}
	for _, n := range names {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
