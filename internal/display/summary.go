// Package display renders evaluation results for the terminal. Rendering is
// a consumer of result records; it never feeds back into the orchestration
// core.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/crucible/internal/models"
	"github.com/harrison/crucible/internal/store"
)

// Renderer writes human-readable result output to a writer.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer creates a Renderer for out, enabling color when out is a TTY.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:   out,
		color: writerIsTTY(out),
	}
}

// writerIsTTY reports whether the writer is an interactive terminal.
func writerIsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Result prints one evaluation result.
func (r *Renderer) Result(name string, result *models.TestResult) {
	fmt.Fprintf(r.out, "%-24s %s  score %.3f\n",
		name, r.statusLabel(result.MetricOutput.Status), result.MetricOutput.Score)
}

// Failure prints one failed case with its error.
func (r *Renderer) Failure(name string, err error) {
	label := "error"
	if r.color {
		label = color.RedString(label)
	}
	fmt.Fprintf(r.out, "%-24s %s  %v\n", name, label, err)
}

// Summary prints pass/warn/fail totals for a batch of results.
func (r *Renderer) Summary(statuses []models.MetricStatus, failures int) {
	counts := make(map[models.MetricStatus]int)
	for _, s := range statuses {
		counts[s]++
	}

	parts := []string{
		fmt.Sprintf("%d passed", counts[models.StatusPassed]),
		fmt.Sprintf("%d warning", counts[models.StatusWarning]),
		fmt.Sprintf("%d failed", counts[models.StatusFailed]),
	}
	if counts[models.StatusInconclusive] > 0 {
		parts = append(parts, fmt.Sprintf("%d inconclusive", counts[models.StatusInconclusive]))
	}
	if failures > 0 {
		parts = append(parts, fmt.Sprintf("%d errored", failures))
	}

	fmt.Fprintf(r.out, "\n%s\n", strings.Join(parts, ", "))
}

// History prints stored records in a compact table.
func (r *Renderer) History(records []store.Record) {
	if len(records) == 0 {
		fmt.Fprintln(r.out, "no stored results")
		return
	}

	fmt.Fprintf(r.out, "%-38s %-12s %-8s %s\n", "RUN", "STATUS", "SCORE", "COMPLETED")
	for _, rec := range records {
		fmt.Fprintf(r.out, "%-38s %-12s %-8.3f %s\n",
			rec.RunID, r.statusLabel(rec.Status), rec.Score,
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

// statusLabel renders a status word, colored when the output is a terminal:
// green for passed, yellow for warning, red for failed, cyan otherwise.
func (r *Renderer) statusLabel(status models.MetricStatus) string {
	if !r.color {
		return string(status)
	}
	switch status {
	case models.StatusPassed:
		return color.GreenString(string(status))
	case models.StatusWarning:
		return color.YellowString(string(status))
	case models.StatusFailed:
		return color.RedString(string(status))
	default:
		return color.CyanString(string(status))
	}
}
