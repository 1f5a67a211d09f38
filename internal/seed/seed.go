package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"listforge/internal/types"
)

// ReadSeed loads a seed CSV into header-keyed rows. The first record is the
// header; short rows leave their trailing columns empty and long rows drop
// the excess cells.
func ReadSeed(path string) ([]types.SeedRow, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read seed header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows []types.SeedRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read seed row %d: %w", len(rows)+2, err)
		}
		row := make(types.SeedRow, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, columns, nil
}

// ReadTemplateSchema loads the output column schema from the first record of
// a bulk-upload template CSV. Blank trailing cells are dropped.
func ReadTemplateSchema(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read template header: %w", err)
	}

	var schema []string
	for _, cell := range record {
		schema = append(schema, strings.TrimSpace(cell))
	}
	for len(schema) > 0 && schema[len(schema)-1] == "" {
		schema = schema[:len(schema)-1]
	}
	if len(schema) == 0 {
		return nil, types.ErrEmptySchema
	}
	return schema, nil
}

const timestampLayout = "2006-01-02_15-04"

// DefaultOutputPath builds a timestamped CSV path next to the seed file,
// e.g. FINAL_EBAY_UPLOAD_2026-08-31_14-05.csv.
func DefaultOutputPath(seedPath, basename string) string {
	dir := filepath.Dir(seedPath)
	name := fmt.Sprintf("%s_%s.csv", basename, time.Now().Format(timestampLayout))
	return filepath.Join(dir, name)
}

// DefaultReportPath is where a validation report lands when no explicit path
// is given.
func DefaultReportPath(seedPath string) string {
	return filepath.Join(filepath.Dir(seedPath), "ebay_seed_validation_report.csv")
}
