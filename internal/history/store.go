package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"scribe/internal/config"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "history.db"))
}

// OpenPath opens the history database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStart inserts a running row for a new pipeline invocation.
func (s *Store) RecordStart(ctx context.Context, runID, url, platform, videoID string) (*Run, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, url, platform, video_id, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		url,
		platform,
		nullableString(videoID),
		StatusRunning,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// MarkCompleted transitions a run to completed and records the written
// output files.
func (s *Store) MarkCompleted(ctx context.Context, runID string, outputs []string) error {
	outputsJSON, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("marshal outputs: %w", err)
	}
	return s.update(ctx, runID,
		`UPDATE runs SET status = ?, outputs_json = ?, updated_at = ? WHERE run_id = ?`,
		StatusCompleted, string(outputsJSON), now(), runID)
}

// MarkFailed transitions a run to failed with the terminal error text.
func (s *Store) MarkFailed(ctx context.Context, runID string, cause error) error {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return s.update(ctx, runID,
		`UPDATE runs SET status = ?, error_text = ?, updated_at = ? WHERE run_id = ?`,
		StatusFailed, nullableString(detail), now(), runID)
}

func (s *Store) update(ctx context.Context, runID, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %q not found", runID)
	}
	return nil
}

// GetByID fetches a single run by row ID.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanRun(row)
}

// GetByRunID fetches a single run by its UUID.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE run_id = ?`, runID)
	return scanRun(row)
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectColumns + ` ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Clear removes every recorded run.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, run_id, url, platform, video_id, status, outputs_json, error_text, created_at, updated_at FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var videoID, outputsJSON, errorText sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&run.ID,
		&run.RunID,
		&run.URL,
		&run.Platform,
		&videoID,
		&run.Status,
		&outputsJSON,
		&errorText,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.VideoID = videoID.String
	run.ErrorText = errorText.String
	if outputsJSON.Valid && strings.TrimSpace(outputsJSON.String) != "" {
		if err := json.Unmarshal([]byte(outputsJSON.String), &run.Outputs); err != nil {
			return nil, fmt.Errorf("parse outputs: %w", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		run.UpdatedAt = ts
	}
	return &run, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
