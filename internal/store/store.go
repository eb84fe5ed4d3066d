// Package store persists evaluation results to SQLite. Persistence is a
// collaborator layered outside the orchestration core: the runner never
// touches the store, callers save the results they receive.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/crucible/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Record is the stored form of a TestResult. Structured parts (output,
// details, configs) are kept as JSON text columns.
type Record struct {
	ID            int64
	RunID         string
	ExecutorType  string
	EvaluatorType string
	Score         float64
	Status        models.MetricStatus
	Output        string // JSON-encoded executor output
	Details       string // JSON-encoded metric details
	Thresholds    string // JSON-encoded threshold map
	Configs       string // JSON-encoded effective TestConfig
	Metadata      string // JSON-encoded run metadata
	CreatedAt     time.Time
}

// Store manages the SQLite database of evaluation results.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a Store and initializes the database at dbPath, creating
// parent directories as needed. ":memory:" yields an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so subsequent statements wait on locks instead
	// of failing when several crucible processes share one database.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists one TestResult.
func (s *Store) Save(ctx context.Context, result *models.TestResult) error {
	if result == nil {
		return fmt.Errorf("result must not be nil")
	}

	output, err := encodeJSON(result.ExecutorOutput)
	if err != nil {
		return fmt.Errorf("encode executor output: %w", err)
	}
	details, err := encodeJSON(result.MetricOutput.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	thresholds, err := encodeJSON(result.MetricOutput.Threshold)
	if err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}
	configs, err := encodeJSON(map[string]any{
		"executor_config": result.ConfigsUsed.ExecutorConfig,
		"metric_config":   result.ConfigsUsed.MetricConfig,
	})
	if err != nil {
		return fmt.Errorf("encode configs: %w", err)
	}
	metadata, err := encodeJSON(result.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (run_id, executor_type, evaluator_type, score, status,
			executor_output, details, thresholds, configs, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Metadata["run_id"],
		result.Metadata["executor_type"],
		result.Metadata["evaluator_type"],
		result.MetricOutput.Score,
		string(result.MetricOutput.Status),
		output, details, thresholds, configs, metadata,
		result.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first. limit <= 0 means no
// limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, run_id, executor_type, evaluator_type, score, status,
			executor_output, details, thresholds, configs, metadata, created_at
		FROM results ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

// GetByRunID returns the record for one run, or an error if absent.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, executor_type, evaluator_type, score, status,
			executor_output, details, thresholds, configs, metadata, created_at
		FROM results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query result: %w", err)
		}
		return nil, fmt.Errorf("no result with run_id %q", runID)
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountByStatus returns how many stored results carry each status.
func (s *Store) CountByStatus(ctx context.Context) (map[models.MetricStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM results GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.MetricStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[models.MetricStatus(status)] = count
	}
	return counts, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var status string
	err := rows.Scan(&rec.ID, &rec.RunID, &rec.ExecutorType, &rec.EvaluatorType,
		&rec.Score, &status, &rec.Output, &rec.Details, &rec.Thresholds,
		&rec.Configs, &rec.Metadata, &rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("scan result: %w", err)
	}
	rec.Status = models.MetricStatus(status)
	return rec, nil
}

// encodeJSON marshals a value for a text column. Values that cannot be
// marshalled (opaque visualization payloads) are recorded by type name
// rather than failing the save.
func encodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		var typeErr *json.UnsupportedTypeError
		if errors.As(err, &typeErr) {
			return fmt.Sprintf("%q", fmt.Sprintf("<%T>", value)), nil
		}
		return "", err
	}
	return string(data), nil
}
