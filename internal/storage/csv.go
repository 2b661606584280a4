package storage

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSVStore provides a storage interface for CSV files (one file per source).
type CSVStore struct {
	basePath string
	logger   *log.Logger
}

// NewCSVStore creates a new CSV store.
func NewCSVStore(basePath string, logger *log.Logger) (*CSVStore, error) {
	return &CSVStore{basePath: basePath, logger: logger}, nil
}

// Init initializes the storage directory.
func (s *CSVStore) Init() error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create CSV storage directory: %w", err)
	}
	s.logger.Printf("✅ CSV storage directory ready: %s", s.basePath)
	return nil
}

// StoreLines appends lines to the CSV file named after source.
func (s *CSVStore) StoreLines(source string, lines []Line) (int, error) {
	fileName := fmt.Sprintf("%s.csv", archiveName(source))
	filePath := filepath.Join(s.basePath, fileName)

	// Check if file exists to determine if we need headers
	fileExists := false
	if _, err := os.Stat(filePath); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if !fileExists {
		if err := writer.Write([]string{"source", "line", "message"}); err != nil {
			return 0, fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	var inserted int
	for _, l := range lines {
		record := []string{source, strconv.Itoa(l.Number), l.Text}
		if err := writer.Write(record); err != nil {
			s.logger.Printf("      \\_ CSV write error: %v, for line %d", err, l.Number)
		} else {
			inserted++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV file: %w", err)
	}

	s.logger.Printf("📄 Stored %d lines to %s", inserted, fileName)
	return inserted, nil
}

// Close cleanup resources (no-op for CSV).
func (s *CSVStore) Close() error {
	return nil
}

// archiveName turns a log path into a flat file name.
func archiveName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "log"
	}
	return base
}
