package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/threadsmith/internal"
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		initial_draft TEXT NOT NULL,
		draft_key TEXT NOT NULL,
		final_draft TEXT NOT NULL,
		status TEXT NOT NULL,
		language TEXT,
		model TEXT,
		iterations INTEGER NOT NULL,
		character_count INTEGER NOT NULL,
		started_at TIMESTAMP,
		approved_after_ms INTEGER DEFAULT 0,
		researcher_analysis TEXT,
		draft_analysis TEXT,
		editor_feedback TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- run_versions keeps every accepted writer draft; position 0 is the empty seed
	CREATE TABLE IF NOT EXISTS run_versions (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS run_reviews (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		feedback TEXT NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS run_messages (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		at TIMESTAMP,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_draft ON runs(draft_key);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun archives rec and returns its ID. A missing ID or CreatedAt is
// filled in.
func (s *Store) SaveRun(ctx context.Context, rec internal.RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, initial_draft, draft_key, final_draft, status, language, model, iterations, character_count, started_at, approved_after_ms, researcher_analysis, draft_analysis, editor_feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InitialDraft, normalizeText(rec.InitialDraft), rec.FinalDraft, rec.Status, rec.Language, rec.Model,
		rec.Iterations, rec.CharacterCount, rec.StartedAt, rec.ApprovedAfter.Milliseconds(),
		rec.ResearcherAnalysis, rec.DraftAnalysis, rec.EditorFeedback, rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, v := range rec.Versions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_versions (run_id, position, text) VALUES (?, ?, ?)`,
			rec.ID, i, v); err != nil {
			return "", fmt.Errorf("insert version %d: %w", i, err)
		}
	}
	for i, r := range rec.Reviews {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_reviews (run_id, position, feedback) VALUES (?, ?, ?)`,
			rec.ID, i, r); err != nil {
			return "", fmt.Errorf("insert review %d: %w", i, err)
		}
	}
	for i, m := range rec.Messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_messages (run_id, position, role, content, at) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, i, m.Role, m.Content, m.At); err != nil {
			return "", fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	return rec.ID, tx.Commit()
}

const runColumns = `id, initial_draft, final_draft, status, COALESCE(language, ''), COALESCE(model, ''), iterations, character_count, started_at, approved_after_ms, COALESCE(researcher_analysis, ''), COALESCE(draft_analysis, ''), COALESCE(editor_feedback, ''), created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (internal.RunRecord, error) {
	var rec internal.RunRecord
	var approvedMs int64
	err := row.Scan(&rec.ID, &rec.InitialDraft, &rec.FinalDraft, &rec.Status, &rec.Language, &rec.Model,
		&rec.Iterations, &rec.CharacterCount, &rec.StartedAt, &approvedMs,
		&rec.ResearcherAnalysis, &rec.DraftAnalysis, &rec.EditorFeedback, &rec.CreatedAt)
	rec.ApprovedAfter = time.Duration(approvedMs) * time.Millisecond
	return rec, err
}

// GetRun returns the run with its versions, reviews and messages.
func (s *Store) GetRun(ctx context.Context, id string) (*internal.RunRecord, error) {
	rec, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if rec.Versions, err = s.texts(ctx, `SELECT text FROM run_versions WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}
	if rec.Reviews, err = s.texts(ctx, `SELECT feedback FROM run_reviews WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, at FROM run_messages WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m internal.RunMessage
		if err := rows.Scan(&m.Role, &m.Content, &m.At); err != nil {
			return nil, err
		}
		rec.Messages = append(rec.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s *Store) texts(ctx context.Context, query, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListRuns returns run headers, newest first. limit ≤ 0 returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]internal.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// FindByDraft returns the runs started from draft, compared after trimming
// and NFC normalization, newest first.
func (s *Store) FindByDraft(ctx context.Context, draft string) ([]internal.RunRecord, error) {
	return s.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs WHERE draft_key = ? ORDER BY created_at DESC`,
		normalizeText(draft))
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...interface{}) ([]internal.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// DeleteRun permanently removes a run and its children by ID.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"run_versions", "run_reviews", "run_messages"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

// JournalStats summarises the archived runs.
type JournalStats struct {
	TotalRuns     int
	ApprovedRuns  int
	TotalVersions int
	AvgIterations float64
}

// Stats returns summary statistics for the journal.
func (s *Store) Stats(ctx context.Context) (*JournalStats, error) {
	stats := &JournalStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(iterations), 0)
		FROM runs`).Scan(
		&stats.TotalRuns,
		&stats.ApprovedRuns,
		&stats.AvgIterations,
	)
	if err != nil {
		return nil, err
	}

	// the empty seed at position 0 is not a version
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM run_versions WHERE position > 0`).Scan(&stats.TotalVersions)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent draft comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
