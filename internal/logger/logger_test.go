package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"DEBUG":   DEBUG,
		"info":    INFO,
		"Warning": WARN,
		"ERROR":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(WARN, &buf)

	l.Info("hidden")
	l.Warn("rollback", F("task", "t1"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO line written at WARN level: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "rollback | task=t1") {
		t.Errorf("missing warn line: %q", out)
	}
}

func TestWithFieldsSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(DEBUG, &buf)
	child := l.WithFields(F("component", "tasks"))

	child.Debug("moved", F("status", "Done"))
	l.Debug("plain")

	out := buf.String()
	if !strings.Contains(out, "moved | component=tasks status=Done") {
		t.Errorf("child fields missing: %q", out)
	}
	if strings.Contains(strings.SplitN(out, "\n", 2)[1], "component=tasks") {
		t.Errorf("parent picked up child fields: %q", out)
	}
}

func TestRotationBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planify.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	for i := 0; i < 5; i++ {
		l.Info("a line that is long enough to push the file over the limit")
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected rotated backup: %v", err)
	}
}

func TestNopDiscards(t *testing.T) {
	// must not panic
	Nop().Error("ignored", F("k", "v"))
	var l *Logger
	l.Info("nil receiver is a no-op")
}
