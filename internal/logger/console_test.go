package logger

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/harrison/crucible/internal/models"
)

func TestNewConsoleLoggerDefaults(t *testing.T) {
	cl := NewConsoleLogger(&bytes.Buffer{}, "")

	if cl.logLevel != "info" {
		t.Errorf("logLevel = %q, want info for empty input", cl.logLevel)
	}

	cl = NewConsoleLogger(&bytes.Buffer{}, "LOUD")
	if cl.logLevel != "info" {
		t.Errorf("logLevel = %q, want info for invalid input", cl.logLevel)
	}

	cl = NewConsoleLogger(&bytes.Buffer{}, "  DEBUG  ")
	if cl.logLevel != "debug" {
		t.Errorf("logLevel = %q, want debug", cl.logLevel)
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.Debugf("hidden debug")
	cl.Infof("hidden info")
	cl.Warnf("visible warn")
	cl.Errorf("visible error")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("output contains filtered messages: %q", output)
	}
	if !strings.Contains(output, "visible warn") || !strings.Contains(output, "visible error") {
		t.Errorf("output missing expected messages: %q", output)
	}
}

func TestConsoleLoggerTimestampPrefix(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.Infof("message")

	line := buf.String()
	if !strings.HasPrefix(line, "[") || !strings.Contains(line, "] message") {
		t.Errorf("line %q missing [HH:MM:SS] prefix", line)
	}
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")

	// Must not panic
	cl.Infof("discarded")
	cl.RunFailed("run-1", fmt.Errorf("boom"))
}

func TestConsoleLoggerRunEvents(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.RunStarted("run-42")
	cl.RunCompleted("run-42", models.StatusPassed, 0.95, 1500*time.Millisecond)
	cl.RunFailed("run-43", fmt.Errorf("backend unavailable"))

	output := buf.String()
	if !strings.Contains(output, "run run-42 started") {
		t.Errorf("missing start event: %q", output)
	}
	if !strings.Contains(output, "passed") || !strings.Contains(output, "0.950") {
		t.Errorf("missing completion details: %q", output)
	}
	if !strings.Contains(output, "run run-43 failed: backend unavailable") {
		t.Errorf("missing failure event: %q", output)
	}
}

func TestConsoleLoggerConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 20; j++ {
				cl.Infof("goroutine %d message %d", i, j)
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 200 {
		t.Errorf("line count = %d, want 200", len(lines))
	}
}
