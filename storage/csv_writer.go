package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rally-metrics/models"
)

// ErrEmptyTable is returned when a CSV file has no header row.
var ErrEmptyTable = errors.New("csv: file has no header row")

// WriteTable creates (or truncates) the CSV file at path and writes the header
// row followed by rows. Intermediate directories are created automatically.
func WriteTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return f.Close()
}

// WriteRaw writes the extracted table to path.
func WriteRaw(path string, table *models.RawTable) error {
	return WriteTable(path, table.Headers, table.Rows)
}

// WriteStandings writes the normalized dataset to path.
func WriteStandings(path string, s *models.Standings) error {
	return WriteTable(path, s.Header(), s.Records())
}

// ReadTable loads a CSV file written by WriteTable. The first row is the header;
// rows must have the same number of fields.
func ReadTable(path string) (*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	table, err := ReadTableFrom(f)
	if errors.Is(err, ErrEmptyTable) {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	return table, err
}

// ReadTableFrom reads a CSV table from any reader, such as an uploaded file.
func ReadTableFrom(in io.Reader) (*models.RawTable, error) {
	r := csv.NewReader(in)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	table := &models.RawTable{Headers: header}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
