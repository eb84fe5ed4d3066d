// Package export appends evaluation results to a JSON Lines file. A file
// lock coordinates concurrent crucible processes appending to the same
// export target, so lines never interleave.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/harrison/crucible/internal/models"
)

// line is the JSONL representation of one result.
type line struct {
	RunID         string             `json:"run_id"`
	ExecutorType  string             `json:"executor_type"`
	EvaluatorType string             `json:"evaluator_type"`
	Score         float64            `json:"score"`
	Status        string             `json:"status"`
	Output        any                `json:"executor_output"`
	Details       map[string]any     `json:"details,omitempty"`
	Thresholds    map[string]float64 `json:"thresholds,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

// Writer appends results to a JSONL file.
type Writer struct {
	path string
	lock *flock.Flock
}

// NewWriter creates a Writer for the given path, creating parent
// directories as needed.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Writer{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Append writes one result as a single JSON line, holding the file lock for
// the duration of the write.
func (w *Writer) Append(result *models.TestResult) error {
	if result == nil {
		return fmt.Errorf("result must not be nil")
	}

	if err := w.lock.Lock(); err != nil {
		return fmt.Errorf("acquire export lock: %w", err)
	}
	defer w.lock.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	err = enc.Encode(line{
		RunID:         result.Metadata["run_id"],
		ExecutorType:  result.Metadata["executor_type"],
		EvaluatorType: result.Metadata["evaluator_type"],
		Score:         result.MetricOutput.Score,
		Status:        string(result.MetricOutput.Status),
		Output:        jsonSafe(result.ExecutorOutput),
		Details:       result.MetricOutput.Details,
		Thresholds:    result.MetricOutput.Threshold,
		Timestamp:     result.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("write export line: %w", err)
	}
	return nil
}

// jsonSafe substitutes a type-name placeholder for values JSON cannot
// represent, so an exotic executor output cannot fail the export.
func jsonSafe(value any) any {
	if _, err := json.Marshal(value); err != nil {
		return fmt.Sprintf("<%T>", value)
	}
	return value
}
