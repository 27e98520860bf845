// Package store handles SQLite persistence of finished quiz sessions.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuiquiz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is a fixed-width UTC form of RFC 3339 so that stored
// timestamps order correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			bank TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			answered INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			ended_early INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS misses (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			original_index INTEGER NOT NULL,
			record_json TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_bank_ended_at ON sessions(bank, ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSession stores a finished session and its wrong-answer snapshots.
// The record ID is generated when empty.
func (s *Store) SaveSession(ctx context.Context, rec model.SessionRecord) (id string, err error) {
	id = rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	sum := rec.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, bank, mode, started_at, ended_at, total, answered, correct, ended_early)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.Bank,
		string(rec.Mode),
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		sum.Total,
		sum.Answered,
		sum.Correct,
		sum.EndedEarly,
	)
	if err != nil {
		return "", err
	}

	if len(sum.ReviewItems) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO misses (session_id, seq, original_index, record_json) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for seq, item := range sum.ReviewItems {
			payload, merr := json.Marshal(item)
			if merr != nil {
				err = fmt.Errorf("encode wrong record: %w", merr)
				return "", err
			}
			if _, err = stmt.ExecContext(ctx, id, seq, item.OriginalIndex, string(payload)); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// RecallMemory returns the distinct original indices missed in the most
// recent window sessions of a bank, ascending.
func (s *Store) RecallMemory(ctx context.Context, bank string, window int) ([]int, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE bank = ?
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT DISTINCT m.original_index
	FROM misses m
	JOIN recent_sessions r ON r.id = m.session_id
	ORDER BY m.original_index ASC`

	rows, err := s.db.QueryContext(ctx, query, bank, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, err
		}
		result = append(result, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LastSession returns the most recent session of a bank with its
// wrong-answer snapshots. The boolean is false when none exists.
func (s *Store) LastSession(ctx context.Context, bank string) (model.SessionRecord, bool, error) {
	var (
		rec        model.SessionRecord
		mode       string
		startedAt  string
		endedAt    string
		endedEarly bool
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, bank, mode, started_at, ended_at, total, answered, correct, ended_early
		 FROM sessions
		 WHERE bank = ?
		 ORDER BY ended_at DESC
		 LIMIT 1`, bank)
	err := row.Scan(&rec.ID, &rec.Bank, &mode, &startedAt, &endedAt,
		&rec.Summary.Total, &rec.Summary.Answered, &rec.Summary.Correct, &endedEarly)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionRecord{}, false, nil
	}
	if err != nil {
		return model.SessionRecord{}, false, err
	}
	rec.Mode = model.Mode(mode)
	rec.Summary.EndedEarly = endedEarly
	if rec.Summary.Total > 0 {
		rec.Summary.ScorePercent = 100 * float64(rec.Summary.Correct) / float64(rec.Summary.Total)
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.SessionRecord{}, false, err
	}
	if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.SessionRecord{}, false, err
	}

	items, err := s.listMisses(ctx, rec.ID)
	if err != nil {
		return model.SessionRecord{}, false, err
	}
	rec.Summary.ReviewItems = items
	return rec, true, nil
}

func (s *Store) listMisses(ctx context.Context, sessionID string) ([]model.WrongRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM misses WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var items []model.WrongRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var item model.WrongRecord
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("decode wrong record: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
