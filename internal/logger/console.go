// Package logger provides logging for crucible evaluation runs.
//
// The package offers structured, leveled logging of run progress.
// Implementations are thread-safe and support any io.Writer destination;
// color output is enabled automatically for terminal output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/crucible/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread
// safety. All output is prefixed with [HH:MM:SS] timestamps. It supports
// log level filtering to control message verbosity. Color output is
// automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided
// io.Writer. If writer is nil, messages are silently discarded.
// logLevel determines the minimum log level for messages to be output.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// The color library's TTY detection also honors NO_COLOR
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates
// it. Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}
	return "info"
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// logf writes a timestamped line at the given level, honoring filtering.
func (cl *ConsoleLogger) logf(level, format string, args ...any) {
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(cl.writer, "[%s] %s\n", timestamp, message)
}

// Tracef logs a message at trace level.
func (cl *ConsoleLogger) Tracef(format string, args ...any) {
	cl.logf("trace", format, args...)
}

// Debugf logs a message at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...any) {
	cl.logf("debug", format, args...)
}

// Infof logs a message at info level.
func (cl *ConsoleLogger) Infof(format string, args ...any) {
	cl.logf("info", format, args...)
}

// Warnf logs a message at warn level.
func (cl *ConsoleLogger) Warnf(format string, args ...any) {
	cl.logf("warn", format, args...)
}

// Errorf logs a message at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...any) {
	cl.logf("error", format, args...)
}

// RunStarted logs the start of an evaluation run.
func (cl *ConsoleLogger) RunStarted(runID string) {
	cl.Infof("run %s started", runID)
}

// RunCompleted logs a finished run with its status, score, and duration.
func (cl *ConsoleLogger) RunCompleted(runID string, status models.MetricStatus, score float64, duration time.Duration) {
	label := string(status)
	if cl.colorOutput {
		label = colorizeStatus(status)
	}
	cl.Infof("run %s completed: %s (score %.3f, %s)", runID, label, score, duration.Round(time.Millisecond))
}

// RunFailed logs a run that aborted with an error.
func (cl *ConsoleLogger) RunFailed(runID string, err error) {
	cl.Errorf("run %s failed: %v", runID, err)
}

// colorizeStatus returns the status word wrapped in its conventional color:
// green for passed, yellow for warning, red for failed.
func colorizeStatus(status models.MetricStatus) string {
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
