package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite database file and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// modernc.org/sqlite is not safe for concurrent writers on one handle.
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS memories (
    seq           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       TEXT NOT NULL,
    id            TEXT NOT NULL,
    session_id    TEXT NOT NULL DEFAULT '',
    type          TEXT NOT NULL,
    content       TEXT NOT NULL,
    timestamp     TEXT NOT NULL,
    relevance     REAL NOT NULL,
    accessed      INTEGER NOT NULL DEFAULT 0,
    last_accessed TEXT,
    tags          TEXT NOT NULL DEFAULT '[]',
    expired       INTEGER NOT NULL DEFAULT 0,
    expires_at    TEXT,
    UNIQUE (user_id, id)
);
CREATE INDEX IF NOT EXISTS idx_memories_user_seq ON memories(user_id, seq);`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}
