package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rent-etl/models"
	"rent-etl/utils"
)

// CSVReader loads raw rent extracts and the MRT proximity table from disk.
type CSVReader struct {
	logger *utils.Logger
}

// NewCSVReader creates a CSVReader with the given logger.
func NewCSVReader(logger *utils.Logger) *CSVReader {
	return &CSVReader{logger: logger}
}

// ReadDir reads every CSV file under dir into raw records, in filename
// order. Each record is tagged with its source filename.
func (r *CSVReader) ReadDir(dir string) ([]models.RawRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("csv: read dir %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []models.RawRecord
	for _, name := range names {
		rows, err := r.readFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		r.logger.Info("[reader] %s: %d rows", name, len(rows))
		records = append(records, rows...)
	}

	r.logger.Info("[reader] Loaded %d raw rows from %d files", len(records), len(names))
	return records, nil
}

func (r *CSVReader) readFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // source files are occasionally ragged

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	body := rows[1:]
	// The source extracts carry a second, English header row.
	if len(body) > 0 && len(body[0]) > 0 && strings.HasPrefix(body[0][0], "The ") {
		body = body[1:]
	}

	source := filepath.Base(path)
	records := make([]models.RawRecord, 0, len(body))
	for _, row := range body {
		rec := make(models.RawRecord, len(header)+1)
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		rec[models.ColSourceFile] = source
		records = append(records, rec)
	}
	return records, nil
}

// ReadDataset reads one CSV file (header + rows) into a Dataset. Used for
// the MRT proximity table.
func (r *CSVReader) ReadDataset(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return &models.Dataset{}, nil
	}

	ds := &models.Dataset{Columns: rows[0]}
	for _, row := range rows[1:] {
		rec := make(models.Record, len(ds.Columns))
		for i, col := range ds.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds, nil
}
