package storage

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Storage persists positional output rows.
type Storage interface {
	Store(rows [][]string) error
	Close() error
	Name() string
}

// WriteCSV writes a header and rows to path in one shot, replacing any
// existing file.
func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}
