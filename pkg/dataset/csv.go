package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads a dataset from CSV data. The first record is the header
// row; all remaining records become data rows of string cells. Records
// may vary in length; short rows are padded to the header width.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded, not rejected

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows [][]Cell
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(rows)+2, err)
		}

		row := make([]Cell, len(record))
		for i, field := range record {
			row[i] = NewStringCell(field)
		}
		rows = append(rows, row)
	}

	return New(header, rows), nil
}

// LoadCSV reads a dataset from a CSV file on disk.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %q: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset from %q: %w", path, err)
	}
	return ds, nil
}
