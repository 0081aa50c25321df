package xlog

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestNoOpLoggerDoesNothing(t *testing.T) {
	var l NoOpLogger
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x") // must not panic
}

func TestStdLoggerPrefixesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Info("connected", "addr", "localhost")

	got := buf.String()
	if !strings.Contains(got, "INFO: connected") {
		t.Fatalf("expected INFO-prefixed line, got %q", got)
	}
	if !strings.Contains(got, "addr") {
		t.Fatalf("expected args rendered in output, got %q", got)
	}
}

func TestStdLoggerWithoutArgsOmitsTrailer(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Error("boom")

	got := strings.TrimSpace(buf.String())
	if got != "ERROR: boom" {
		t.Fatalf("got %q, want %q", got, "ERROR: boom")
	}
}

func TestNewStdLoggerDefaultsToStandardLogger(t *testing.T) {
	l := NewStdLogger(nil)
	if l.L != log.Default() {
		t.Fatalf("expected nil to default to log.Default()")
	}
}
