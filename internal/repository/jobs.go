// Package repository persists extract job records in a local sqlite
// database so batch runs can be audited after the fact.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pratish7991/TablueMeta/constants"
)

const jobsSchema = `
CREATE TABLE IF NOT EXISTS extract_jobs (
	id          TEXT PRIMARY KEY,
	workbook    TEXT NOT NULL,
	file_name   TEXT NOT NULL,
	method      TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	elapsed_ms  INTEGER
);`

// JobLog records one row per file extraction attempt.
type JobLog struct {
	db *sql.DB
}

// Open opens (creating if needed) the job database at path. Use ":memory:"
// for an ephemeral log.
func Open(path string) (*JobLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open job db: %w", err)
	}
	if _, err := db.Exec(jobsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create extract_jobs table: %w", err)
	}
	return &JobLog{db: db}, nil
}

func (l *JobLog) Close() error { return l.db.Close() }

// Start inserts a RUNNING row and returns its id.
func (l *JobLog) Start(ctx context.Context, workbook, fileName, method string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, workbook, file_name, method, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), workbook, fileName, method, string(constants.JobStatusRunning), time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert job: %w", err)
	}
	return id, nil
}

// FinishSuccess marks the job EXTRACT_OK with its elapsed time.
func (l *JobLog) FinishSuccess(ctx context.Context, id uuid.UUID, elapsed time.Duration) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, finished_at = ?, elapsed_ms = ? WHERE id = ?`,
		string(constants.JobStatusExtractOK), time.Now().UTC(), elapsed.Milliseconds(), id.String())
	if err != nil {
		return fmt.Errorf("finish job %s: %w", id, err)
	}
	return nil
}

// FinishFailure marks the job FAILED with the error message.
func (l *JobLog) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, finished_at = ?, error = ? WHERE id = ?`,
		string(constants.JobStatusFailed), time.Now().UTC(), message, id.String())
	if err != nil {
		return fmt.Errorf("fail job %s: %w", id, err)
	}
	return nil
}

// JobRow is one persisted extraction attempt.
type JobRow struct {
	ID        uuid.UUID
	Workbook  string
	FileName  string
	Method    string
	Status    constants.JobStatus
	Error     string
	StartedAt time.Time
	ElapsedMs int64
}

// Recent returns up to limit jobs, newest first.
func (l *JobLog) Recent(ctx context.Context, limit int) ([]JobRow, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, workbook, file_name, method, status, COALESCE(error, ''), started_at, COALESCE(elapsed_ms, 0)
		 FROM extract_jobs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []JobRow
	for rows.Next() {
		var r JobRow
		var id, status string
		if err := rows.Scan(&id, &r.Workbook, &r.FileName, &r.Method, &status, &r.Error, &r.StartedAt, &r.ElapsedMs); err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		r.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse job id %q: %w", id, err)
		}
		r.Status = constants.JobStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
