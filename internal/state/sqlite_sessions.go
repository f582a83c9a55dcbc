package state

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateSession records the start of a capture session.
func (s *SQLiteStore) CreateSession(source, gridID, command string) (*Session, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	session := &Session{
		ID:        generateID(),
		Source:    source,
		GridID:    gridID,
		Command:   command,
		StartedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, source, grid_id, command, started_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.Source, session.GridID, session.Command, session.StartedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// UpdateSessionEntries stores how many requests the session has seen.
func (s *SQLiteStore) UpdateSessionEntries(id string, entries int) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`UPDATE sessions SET entries = ? WHERE id = ?`, entries, id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("session not found: %s", id)
	}
	return nil
}

// EndSession marks a session as finished.
func (s *SQLiteStore) EndSession(id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		time.Now().UTC().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("session not found or already ended: %s", id)
	}
	return nil
}

// ListSessions returns the most recent sessions first. A limit of zero or
// less returns all of them.
func (s *SQLiteStore) ListSessions(limit int) ([]*Session, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(
		`SELECT id, source, grid_id, command, started_at, ended_at, entries
		 FROM sessions ORDER BY started_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*Session
	for rows.Next() {
		session := &Session{}
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&session.ID, &session.Source, &session.GridID, &session.Command,
			&started, &ended, &session.Entries); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.StartedAt = time.UnixMilli(started).UTC()
		if ended.Valid {
			t := time.UnixMilli(ended.Int64).UTC()
			session.EndedAt = &t
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}
