package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// JSONStore provides a storage interface for JSON files (one file per source).
type JSONStore struct {
	basePath string
	logger   *log.Logger
}

// NewJSONStore creates a new JSON store.
func NewJSONStore(basePath string, logger *log.Logger) (*JSONStore, error) {
	return &JSONStore{basePath: basePath, logger: logger}, nil
}

// Init initializes the storage directory.
func (s *JSONStore) Init() error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create JSON storage directory: %w", err)
	}
	s.logger.Printf("✅ JSON storage directory ready: %s", s.basePath)
	return nil
}

// StoreLines appends lines to the JSON file named after source.
func (s *JSONStore) StoreLines(source string, lines []Line) (int, error) {
	fileName := fmt.Sprintf("%s.json", archiveName(source))
	filePath := filepath.Join(s.basePath, fileName)

	// Load existing data if file exists
	var existing []Line
	if data, err := os.ReadFile(filePath); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			return 0, fmt.Errorf("failed to parse existing %s: %w", fileName, err)
		}
	}

	all := append(existing, lines...)

	jsonData, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal JSON data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return 0, fmt.Errorf("failed to write JSON file: %w", err)
	}

	s.logger.Printf("📄 Stored %d lines to %s (total: %d)", len(lines), fileName, len(all))
	return len(lines), nil
}

// Close cleanup resources (no-op for JSON).
func (s *JSONStore) Close() error {
	return nil
}
