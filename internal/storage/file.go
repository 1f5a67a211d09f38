package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"listforge/internal/types"
)

// CSVStorage streams rows to a CSV file, writing the header once on
// creation.
type CSVStorage struct {
	path   string
	file   *os.File
	writer *csv.Writer
	count  int
	logger *slog.Logger
}

// NewCSVStorage creates the output file and writes the header row.
func NewCSVStorage(path string, header []string, logger *slog.Logger) (*CSVStorage, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("create %s: %w", path, err)}
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("write header: %w", err)}
	}

	return &CSVStorage{
		path:   path,
		file:   f,
		writer: w,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

// Store appends rows to the file.
func (s *CSVStorage) Store(rows [][]string) error {
	for _, row := range rows {
		if err := s.writer.Write(row); err != nil {
			return &types.StorageError{Backend: "csv", Err: err}
		}
		s.count++
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *CSVStorage) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return &types.StorageError{Backend: "csv", Err: err}
	}
	s.logger.Info("csv file written", "path", s.path, "rows", s.count)
	return s.file.Close()
}
