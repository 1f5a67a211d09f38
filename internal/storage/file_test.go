package storage

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestCSVStorageWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"*Title", "*StartPrice"}

	s, err := NewCSVStorage(path, header, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Store([][]string{{"Widget", "10.00"}, {"Gadget", "5.50"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	records := readAll(t, path)
	want := [][]string{header, {"Widget", "10.00"}, {"Gadget", "5.50"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}})
	if err != nil {
		t.Fatal(err)
	}
	records := readAll(t, path)
	want := [][]string{{"a", "b"}, {"1", "2"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestNewCSVStorageBadPath(t *testing.T) {
	_, err := NewCSVStorage(filepath.Join(t.TempDir(), "missing", "out.csv"), []string{"a"}, testLogger())
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if !strings.Contains(err.Error(), "csv") {
		t.Errorf("error = %v", err)
	}
}
