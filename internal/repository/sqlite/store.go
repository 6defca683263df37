// Package sqlite provides a file-backed implementation of the chat
// repositories using modernc.org/sqlite. It is the local-development
// alternative to the hosted Postgres store and creates its schema on open.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store owns the sqlite handle shared by the message and prompt repositories
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a sqlite store at the given path. Parent directories are
// created if needed and the schema is applied if missing.
func Open(path string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("sqlite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			parent_id TEXT REFERENCES messages(id),
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			version INTEGER NOT NULL DEFAULT 1 CHECK (version >= 1),
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_parent_id ON messages(parent_id);
		CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);

		CREATE TABLE IF NOT EXISTS prompts (
			id TEXT PRIMARY KEY,
			message_id TEXT NOT NULL REFERENCES messages(id),
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_prompts_message_id ON prompts(message_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	return nil
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}
