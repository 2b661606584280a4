package storage

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/marcboeker/go-duckdb"
)

// DuckDBStore provides a storage interface for DuckDB.
type DuckDBStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewDuckDBStore creates a new DuckDB store.
func NewDuckDBStore(path string, logger *log.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("duckdb connection failed: %w", err)
	}
	return &DuckDBStore{db: db, logger: logger}, nil
}

// Init initializes the database schema.
func (s *DuckDBStore) Init() error {
	createTable := `
	CREATE TABLE IF NOT EXISTS log_lines (
		source VARCHAR,
		line BIGINT,
		message VARCHAR
	);`
	if _, err := s.db.Exec(createTable); err != nil {
		return fmt.Errorf("failed to create DuckDB table: %w", err)
	}
	s.logger.Println("✅ DuckDB table 'log_lines' is ready.")
	return nil
}

// StoreLines inserts the lines in a single transaction.
func (s *DuckDBStore) StoreLines(source string, lines []Line) (int, error) {
	return insertLines(s.db, s.logger, source, lines)
}

// Close closes the database connection.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
