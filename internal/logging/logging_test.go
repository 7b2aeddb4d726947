package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Options{Level: "warn", Console: &buf})
	defer closer.Close()

	logger.Info("hidden message")
	logger.Warn("visible message", "module", "test")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Error("Info should be filtered at warn level")
	}
	if !strings.Contains(out, "visible message") {
		t.Errorf("Expected warning in console output, got %q", out)
	}
}

func TestNew_File(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "hr.log")

	logger, closer := New(Options{Level: "info", File: path, Console: &console})
	logger.With("module", "agent").Info("Resumes ranked", "count", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v (%q)", err, data)
	}
	if entry["msg"] != "Resumes ranked" || entry["module"] != "agent" {
		t.Errorf("Unexpected log entry %v", entry)
	}
	if entry["count"] != float64(3) {
		t.Errorf("Expected count attribute, got %v", entry["count"])
	}

	if !strings.Contains(console.String(), "Resumes ranked") {
		t.Error("Expected the record on the console too")
	}
}
