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
	cases := map[string]slog.Level{
		"":         slog.LevelInfo,
		"DEBUG":    slog.LevelDebug,
		" warning": slog.LevelWarn,
		"error":    slog.LevelError,
		"verbose":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_WritesJSONWithServiceAndLevelFilter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Service: "foxnuts", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer func() { _ = closeFn() }()

	logger.Info("dropped")
	logger.Warn("kept", "op", "cart.add")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["service"] != "foxnuts" || entry["op"] != "cart.add" {
		t.Fatalf("entry = %v", entry)
	}
	if slog.Default() != logger {
		t.Fatalf("default logger not installed")
	}
}

func TestNew_AppendsToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "foxnuts.log")
	logger, closeFn, err := New(Options{Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file = %q, want hello entry", data)
	}
}
