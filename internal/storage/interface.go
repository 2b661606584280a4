package storage

import (
	"log"
)

// Store defines the interface for all archive implementations.
type Store interface {
	// Init initializes the storage (creates tables, directories, etc.)
	Init() error

	// StoreLines archives the delivered lines of one log file
	StoreLines(source string, lines []Line) (int, error)

	// Close cleanup resources
	Close() error
}

// StorageType represents the different storage types available.
type StorageType string

const (
	StorageTypeDuckDB StorageType = "duckdb"
	StorageTypeSQLite StorageType = "sqlite"
	StorageTypeJSON   StorageType = "json"
	StorageTypeCSV    StorageType = "csv"
)

// DefaultPath returns the archive location used when none is configured.
func DefaultPath(storageType StorageType) string {
	switch storageType {
	case StorageTypeJSON:
		return "archive/json"
	case StorageTypeCSV:
		return "archive/csv"
	case StorageTypeSQLite:
		return "logs.sqlite"
	default:
		return "logs.duckdb"
	}
}

// Resolve turns configured archive settings into a concrete backend and
// location. An empty type means DuckDB; an empty path means DefaultPath.
func Resolve(storageType, path string) (StorageType, string) {
	st := StorageType(storageType)
	if st == "" {
		st = StorageTypeDuckDB
	}
	if path == "" {
		path = DefaultPath(st)
	}
	return st, path
}

// NewStore creates a new storage instance based on the specified type.
func NewStore(storageType StorageType, path string, logger *log.Logger) (Store, error) {
	switch storageType {
	case StorageTypeDuckDB:
		return NewDuckDBStore(path, logger)
	case StorageTypeSQLite:
		return NewSQLiteStore(path, logger)
	case StorageTypeJSON:
		return NewJSONStore(path, logger)
	case StorageTypeCSV:
		return NewCSVStore(path, logger)
	default:
		return NewDuckDBStore(path, logger) // Default fallback
	}
}
