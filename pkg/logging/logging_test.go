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
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", slog.String("method", "get_console_logs"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["msg"] != "shown" || entry["method"] != "get_console_logs" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := New(Options{Format: "xml", Output: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "unityctl.log")
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Format: "text", FilePath: path, Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("request settled")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "request settled") || !strings.Contains(buf.String(), "request settled") {
		t.Fatalf("expected message in both outputs, file=%q buf=%q", data, buf.String())
	}
}

func TestRollingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.log")
	rf, err := newRollingFile(path, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rf.Close()
	chunk := bytes.Repeat([]byte("x"), 700*1024)
	for i := 0; i < 2; i++ {
		if _, err := rf.Write(chunk); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(len(chunk)) {
		t.Fatalf("expected fresh file with one chunk, got %d bytes", info.Size())
	}
}

func TestResolveFormatProbesOutput(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if got := resolveFormat("", f); got != "json" {
		t.Fatalf("expected json for a non-terminal file, got %q", got)
	}
	if got := resolveFormat("", &bytes.Buffer{}); got != "text" {
		t.Fatalf("expected text for a buffer, got %q", got)
	}
	if got := resolveFormat(" TEXT ", f); got != "text" {
		t.Fatalf("explicit format should win, got %q", got)
	}
}

func TestNewDefaultsToJSONWhenRedirected(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	logger, closer, err := New(Options{Level: "info", Output: f})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closer.Close()
	logger.Info("request settled", slog.String("outcome", "success"))

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected a json line, got %q: %v", data, err)
	}
	if entry["outcome"] != "success" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestRollingFileTruncatesWhenRenameFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.log")
	// A non-empty directory at path.1 makes the rename fail.
	if err := os.MkdirAll(filepath.Join(path+".1", "keep"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	rf, err := newRollingFile(path, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rf.Close()

	chunk := bytes.Repeat([]byte("x"), 700*1024)
	if _, err := rf.Write(chunk); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := rf.Write(chunk); err == nil {
		t.Fatal("expected rotation error")
	}
	if _, err := rf.Write(chunk); err != nil {
		t.Fatalf("write after failed rotation: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(len(chunk)) {
		t.Fatalf("expected file truncated to one chunk, got %d bytes", info.Size())
	}
}
