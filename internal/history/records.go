package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BeginSession records the start of a reader run.
func (s *Store) BeginSession(ctx context.Context, id, language string, startedAt time.Time) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("begin session: id is required")
	}
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	_, err := s.exec(ctx,
		`INSERT INTO sessions (id, language, started_at) VALUES (?, ?, ?)`,
		id, language, formatTime(startedAt))
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// EndSession stamps the session's end time. Ending an unknown session is an error.
func (s *Store) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	res, err := s.exec(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ?`, formatTime(endedAt), id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("end session: unknown session %q", id)
	}
	return nil
}

// Record stores an accepted passage and returns it with its ID assigned.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	entry.Text = strings.TrimSpace(entry.Text)
	if entry.Text == "" {
		return entry, errors.New("record passage: text is empty")
	}
	if entry.DetectedAt.IsZero() {
		entry.DetectedAt = time.Now()
	}
	res, err := s.exec(ctx,
		`INSERT INTO passages (session_id, text, confidence, spoken, saved_path, detected_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.SessionID, entry.Text, entry.Confidence, entry.Spoken, entry.SavedPath, formatTime(entry.DetectedAt))
	if err != nil {
		return entry, fmt.Errorf("record passage: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return entry, fmt.Errorf("record passage id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// MarkSpoken flags a passage as read aloud.
func (s *Store) MarkSpoken(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, `UPDATE passages SET spoken = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark spoken: %w", err)
	}
	return nil
}

// List returns the most recent passages, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.queryEntries(ctx, "", limit)
}

// ListSession returns the passages of one session, newest first.
func (s *Store) ListSession(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	return s.queryEntries(ctx, sessionID, limit)
}

func (s *Store) queryEntries(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, session_id, text, confidence, spoken, saved_path, detected_at FROM passages`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY detected_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			detected string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Text, &e.Confidence, &e.Spoken, &e.SavedPath, &detected); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		e.DetectedAt = parseTime(detected)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sessions returns recent sessions with their passage counts, newest first.
func (s *Store) Sessions(ctx context.Context, limit int) ([]Session, error) {
	ctx = ensureContext(ctx)
	query := `SELECT s.id, s.language, s.started_at, COALESCE(s.ended_at, ''), COUNT(p.id)
		FROM sessions s
		LEFT JOIN passages p ON p.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess           Session
			started, ended string
		)
		if err := rows.Scan(&sess.ID, &sess.Language, &started, &ended, &sess.Passages); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = parseTime(started)
		sess.EndedAt = parseTime(ended)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Summarize counts passages and sessions.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	ctx = ensureContext(ctx)
	var (
		summary Summary
		last    sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(1) FROM passages), (SELECT COUNT(1) FROM sessions), (SELECT MAX(detected_at) FROM passages)`,
	).Scan(&summary.Passages, &summary.Sessions, &last)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize history: %w", err)
	}
	if last.Valid {
		summary.LastDetected = parseTime(last.String)
	}
	return summary, nil
}

// Clear deletes every passage and session and returns the number of passages removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM passages`)
	if err != nil {
		return 0, fmt.Errorf("clear passages: %w", err)
	}
	removed, _ := res.RowsAffected()
	if _, err := s.exec(ctx, `DELETE FROM sessions`); err != nil {
		return removed, fmt.Errorf("clear sessions: %w", err)
	}
	return removed, nil
}
