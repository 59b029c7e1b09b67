// Package history persists analysis runs and their findings in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"staticlint/internal/engine/finding"
)

const (
	driverName        = "sqlite"
	maxAttempts       = 5
	defaultProjectKey = "default"

	// timestampLayout is fixed width so that timestamps sort as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Open creates or migrates the database at path. busyTimeout bounds how
// long SQLite waits on a lock held by another process.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = 2 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)",
		cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}
	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun stores a run and its findings in one transaction and returns the
// run id, generating one when the record has none.
func (s *Store) SaveRun(ctx context.Context, record RunRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := record.Run
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.ProjectKey = projectKey(run.ProjectKey)
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.FindingCount = len(record.Findings)

	err := s.withRetry("save run", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, project_key, started_at_utc, duration_ms, files_scanned, finding_count, tool_version)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.ProjectKey,
			run.StartedAt.UTC().Format(timestampLayout),
			run.Duration.Milliseconds(),
			run.FilesScanned,
			run.FindingCount,
			run.ToolVersion,
		); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO findings (run_id, seq, rule_set, rule_id, severity, message, entity, file, line, col, end_line, end_col, debt_minutes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, f := range record.Findings {
			if _, err := stmt.ExecContext(ctx,
				run.ID, i,
				f.RuleSet, f.RuleID, f.Severity.String(), f.Message, f.Entity,
				f.Location.File, f.Location.Line, f.Location.Column, f.Location.EndLine, f.Location.EndColumn,
				int64(f.Debt/time.Minute),
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// LoadRuns returns the newest runs of a project first. A non-positive limit
// returns all of them.
func (s *Store) LoadRuns(ctx context.Context, project string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, project_key, started_at_utc, duration_ms, files_scanned, finding_count, tool_version
FROM runs
WHERE project_key = ?
ORDER BY started_at_utc DESC, id ASC`
	args := []any{projectKey(project)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			startedRaw string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &run.ProjectKey, &startedRaw, &durationMS, &run.FilesScanned, &run.FindingCount, &run.ToolVersion); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		started, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// LoadFindings returns the findings of one run in the order they were saved.
func (s *Store) LoadFindings(ctx context.Context, runID string) ([]finding.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load findings", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, `
SELECT rule_set, rule_id, severity, message, entity, file, line, col, end_line, end_col, debt_minutes
FROM findings
WHERE run_id = ?
ORDER BY seq ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]finding.Finding, 0)
	for rows.Next() {
		var (
			f           finding.Finding
			severityRaw string
			debtMinutes int64
		)
		if err := rows.Scan(
			&f.RuleSet, &f.RuleID, &severityRaw, &f.Message, &f.Entity,
			&f.Location.File, &f.Location.Line, &f.Location.Column, &f.Location.EndLine, &f.Location.EndColumn,
			&debtMinutes,
		); err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		severity, err := finding.ParseSeverity(severityRaw)
		if err != nil {
			return nil, fmt.Errorf("finding of run %s: %w", runID, err)
		}
		f.Severity = severity
		f.Debt = time.Duration(debtMinutes) * time.Minute
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finding rows: %w", err)
	}
	return out, nil
}

// Prune keeps the newest keep runs of a project and deletes the rest along
// with their findings. It returns the number of runs removed.
func (s *Store) Prune(ctx context.Context, project string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	err := s.withRetry("prune runs", func() error {
		res, err := s.db.ExecContext(ctx, `
DELETE FROM runs
WHERE project_key = ?
  AND id NOT IN (
    SELECT id FROM runs WHERE project_key = ?
    ORDER BY started_at_utc DESC, id ASC
    LIMIT ?
  )`, projectKey(project), projectKey(project), keep)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	return int(removed), err
}

func projectKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return defaultProjectKey
	}
	return key
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

// IsCorruptError reports errors that mean the file is not a usable database.
func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
