// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typist/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
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
			id INTEGER PRIMARY KEY,
			public_id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			source TEXT NOT NULL,
			text_len INTEGER NOT NULL,
			input_len INTEGER NOT NULL,
			wpm_raw REAL NOT NULL,
			wpm_actual REAL NOT NULL,
			accuracy_raw REAL NOT NULL,
			accuracy_actual REAL NOT NULL,
			consistency REAL NOT NULL,
			adds INTEGER NOT NULL,
			deletes INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			corrections INTEGER NOT NULL,
			wrong_deletes INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_char_stats (
			session_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			PRIMARY KEY (session_id, char)
		);`,
		`CREATE TABLE IF NOT EXISTS session_measurements (
			session_id INTEGER NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			PRIMARY KEY (session_id, timestamp_ms)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_char_stats_char ON session_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session with its per-character stats and
// measurements. An empty PublicID is replaced with a fresh UUID, which is
// returned along with the row id.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, chars []model.CharStats, measurements []model.MeasurementRecord) (id int64, publicID string, err error) {
	publicID = rec.PublicID
	if publicID == "" {
		publicID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (public_id, started_at, ended_at, lang, source, text_len, input_len,
			wpm_raw, wpm_actual, accuracy_raw, accuracy_actual, consistency,
			adds, deletes, errors, corrections, wrong_deletes, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		publicID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Lang,
		rec.Source,
		rec.TextLen,
		rec.InputLen,
		rec.WpmRaw,
		rec.WpmActual,
		rec.AccuracyRaw,
		rec.AccuracyActual,
		rec.Consistency,
		rec.Adds,
		rec.Deletes,
		rec.Errors,
		rec.Corrections,
		rec.WrongDeletes,
		rec.DurationMs,
	)
	if err != nil {
		return 0, "", fmt.Errorf("insert session: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, "", err
	}

	for _, cs := range chars {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO session_char_stats (session_id, char, attempts, errors) VALUES (?, ?, ?, ?)`,
			id, cs.Char, cs.Attempts, cs.Errors); err != nil {
			return 0, "", fmt.Errorf("insert char stats: %w", err)
		}
	}
	for _, m := range measurements {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO session_measurements (session_id, timestamp_ms, wpm, accuracy) VALUES (?, ?, ?, ?)`,
			id, m.TimestampMs, m.Wpm, m.Accuracy); err != nil {
			return 0, "", fmt.Errorf("insert measurement: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, "", err
	}
	return id, publicID, nil
}

// GetWeakChars aggregates character stats over the most recent sessions.
func (s *Store) GetWeakChars(ctx context.Context, window int, lang string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR lang = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.attempts) AS attempts, SUM(cs.errors) AS errors
	FROM session_char_stats cs
	JOIN recent_sessions r ON r.id = cs.session_id
	GROUP BY cs.char`

	rows, err := s.db.QueryContext(ctx, query, lang, lang, window)
	if err != nil {
		return nil, err
	}
	return scanCharAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, public_id, ended_at, lang, source, wpm_actual, accuracy_actual,
		consistency, errors, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		agg, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession looks up a session by its public id.
func (s *Store) GetSession(ctx context.Context, publicID string) (model.SessionAggregate, error) {
	if _, err := uuid.Parse(publicID); err != nil {
		return model.SessionAggregate{}, fmt.Errorf("invalid session id %q: %w", publicID, err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, public_id, ended_at, lang, source, wpm_actual, accuracy_actual,
		consistency, errors, duration_ms
		FROM sessions WHERE public_id = ?`, publicID)
	agg, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionAggregate{}, ErrNotFound
	}
	return agg, err
}

// ListMeasurements returns the measurements of a session in time order.
func (s *Store) ListMeasurements(ctx context.Context, sessionID int64) ([]model.MeasurementRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT timestamp_ms, wpm, accuracy
		FROM session_measurements
		WHERE session_id = ?
		ORDER BY timestamp_ms ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []model.MeasurementRecord
	for rows.Next() {
		var m model.MeasurementRecord
		if err := rows.Scan(&m.TimestampMs, &m.Wpm, &m.Accuracy); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCharAggregatesForSessions aggregates per-character stats across sessions.
func (s *Store) ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT char, SUM(attempts) AS attempts, SUM(errors) AS errors
		FROM session_char_stats
		WHERE session_id IN (%s)
		GROUP BY char`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanCharAggregates(rows)
}

// ListCharStatsForSessions returns per-session stats for selected characters.
func (s *Store) ListCharStatsForSessions(ctx context.Context, sessionIDs []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	if len(sessionIDs) == 0 || len(chars) == 0 {
		return map[int64]map[string]model.CharAggregate{}, nil
	}
	idPlaceholders, args := inClause(sessionIDs)
	charPlaceholders := make([]string, len(chars))
	for i, ch := range chars {
		charPlaceholders[i] = "?"
		args = append(args, ch)
	}

	query := fmt.Sprintf(`SELECT session_id, char, attempts, errors
		FROM session_char_stats
		WHERE session_id IN (%s) AND char IN (%s)`, idPlaceholders, strings.Join(charPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := map[int64]map[string]model.CharAggregate{}
	for rows.Next() {
		var sessionID int64
		var agg model.CharAggregate
		if err := rows.Scan(&sessionID, &agg.Char, &agg.Attempts, &agg.Errors); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.CharAggregate{}
		}
		result[sessionID][agg.Char] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (model.SessionAggregate, error) {
	var agg model.SessionAggregate
	var endedAt string
	if err := row.Scan(&agg.SessionID, &agg.PublicID, &endedAt, &agg.Lang, &agg.Source,
		&agg.Wpm, &agg.Accuracy, &agg.Consistency, &agg.Errors, &agg.DurationMs); err != nil {
		return model.SessionAggregate{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, endedAt)
	if err != nil {
		return model.SessionAggregate{}, err
	}
	agg.EndedAt = parsed
	return agg, nil
}

func scanCharAggregates(rows *sql.Rows) ([]model.CharAggregate, error) {
	defer func() {
		_ = rows.Close()
	}()
	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Attempts, &agg.Errors); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}
