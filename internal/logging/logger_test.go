package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - `)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	logger.Info("Request received", "app", "notepad", "action", "hello world")

	line := buf.String()
	if !linePattern.MatchString(line) {
		t.Fatalf("line does not start with timestamp separator: %q", line)
	}
	if !strings.Contains(line, "Request received app=notepad action=\"hello world\"") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("line should end with newline")
	}
}

func TestLineHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelWarn))

	logger.Info("dropped")
	logger.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record should be filtered")
	}
	if !strings.Contains(out, "ERROR: kept") {
		t.Errorf("expected error line, got %q", out)
	}
}

func TestLineHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo)).
		With("id", "abc").
		WithGroup("req")

	logger.Info("state", "app", "calc", slog.Group("launch", "pid", 42))

	line := buf.String()
	for _, want := range []string{"id=abc", "req.app=calc", "req.launch.pid=42"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestNew_WritesBothSinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")
	var console bytes.Buffer

	logger, closer, err := New(Options{Console: &console, NoColor: true, FilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", "n", 1)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !linePattern.Match(data) || !strings.Contains(string(data), "hello n=1") {
		t.Errorf("unexpected file contents: %q", data)
	}
	if !strings.Contains(console.String(), "hello") {
		t.Errorf("unexpected console output: %q", console.String())
	}
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")
	if err := os.WriteFile(path, []byte("earlier line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, closer, err := New(Options{FilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("later")
	closer.Close()

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "earlier line\n") {
		t.Errorf("existing content was not preserved: %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DEBUG"); err != nil || l != slog.LevelDebug {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) should fail")
	}
}
