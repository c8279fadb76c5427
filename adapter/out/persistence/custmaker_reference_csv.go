package persistence

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"custmaker/core/domain"
)

// ParseReferenceCSV reads "value,ratio" rows. A first row whose ratio column is
// not numeric is treated as a header. Blank values are rejected.
func ParseReferenceCSV(r io.Reader) ([]domain.WeightedValue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		entries []domain.WeightedValue
		line    int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrInvalidInput, err)
		}
		line++

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected value,ratio", ErrInvalidInput, line)
		}

		value := strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff"))
		ratio, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: ratio %q: %v", ErrInvalidInput, line, row[1], err)
		}
		if value == "" {
			return nil, fmt.Errorf("%w: line %d: empty value", ErrInvalidInput, line)
		}
		if ratio < 0 {
			return nil, fmt.Errorf("%w: line %d: negative ratio %v", ErrInvalidInput, line, ratio)
		}

		entries = append(entries, domain.WeightedValue{Value: value, Weight: ratio})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidInput)
	}
	return entries, nil
}
