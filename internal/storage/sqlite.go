package storage

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore provides a storage interface for SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string, logger *log.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection failed: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Init initializes the database schema.
func (s *SQLiteStore) Init() error {
	createTable := `
	CREATE TABLE IF NOT EXISTS log_lines (
		source TEXT,
		line INTEGER,
		message TEXT
	);`
	if _, err := s.db.Exec(createTable); err != nil {
		return fmt.Errorf("failed to create SQLite table: %w", err)
	}
	s.logger.Println("✅ SQLite table 'log_lines' is ready.")
	return nil
}

// StoreLines inserts the lines in a single transaction.
func (s *SQLiteStore) StoreLines(source string, lines []Line) (int, error) {
	return insertLines(s.db, s.logger, source, lines)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// insertLines is shared by the SQL backends; both accept '?' placeholders.
func insertLines(db *sql.DB, logger *log.Logger, source string, lines []Line) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("DB transaction error: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO log_lines VALUES (?,?,?)")
	if err != nil {
		return 0, fmt.Errorf("DB prepare error: %w", err)
	}
	defer stmt.Close()

	var inserted int
	for _, l := range lines {
		if _, err := stmt.Exec(source, l.Number, l.Text); err != nil {
			// Log individual insert error but continue trying to insert others
			logger.Printf("      \\_ Insert error: %v, for line %d", err, l.Number)
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit error: %w", err)
	}
	return inserted, nil
}
