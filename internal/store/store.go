package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"EduChat/internal/timeline"
)

// Store archives session transcripts in a local sqlite database. It is a
// client-side record only; the server keeps its own history.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		start_time DATETIME,
		endpoint TEXT
	);`

	createMessagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		entry_id INTEGER,
		sender TEXT,
		content TEXT,
		status TEXT,
		timestamp DATETIME,
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);`

	if _, err := db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	if _, err := db.Exec(createMessagesTable); err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the archived transcript for the session.
func (s *Store) Save(sessionID string, startTime time.Time, endpointLabel string, entries []timeline.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO sessions (id, start_time, endpoint) VALUES (?, ?, ?)",
		sessionID, startTime, endpointLabel,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}

	for _, e := range entries {
		_, err = tx.Exec(
			"INSERT INTO messages (session_id, entry_id, sender, content, status, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
			sessionID, e.ID, string(e.Sender), e.Text, string(e.Status), e.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load returns the archived transcript for a session id in entry order.
func (s *Store) Load(sessionID string) ([]timeline.Entry, error) {
	rows, err := s.db.Query(
		"SELECT entry_id, sender, content, status, timestamp FROM messages WHERE session_id = ? ORDER BY entry_id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	defer rows.Close()

	var entries []timeline.Entry
	for rows.Next() {
		var e timeline.Entry
		var sender, status string
		if err := rows.Scan(&e.ID, &sender, &e.Text, &status, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		e.Sender = timeline.Sender(sender)
		e.Status = timeline.Status(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return entries, nil
}
