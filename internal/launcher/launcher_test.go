package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommand_Argv(t *testing.T) {
	c := Command{Path: "chrome.exe", Args: []string{"https://example.com"}}
	argv := c.Argv()
	if len(argv) != 2 || argv[0] != "chrome.exe" || argv[1] != "https://example.com" {
		t.Errorf("Argv() = %v", argv)
	}
	if c.String() != "chrome.exe https://example.com" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestStart_NotFoundOnPath(t *testing.T) {
	l := New(nil)
	_, err := l.Start(context.Background(), Command{Path: "definitely-not-a-real-binary-7f3a"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-binary-7f3a") {
		t.Errorf("error should name the executable: %v", err)
	}
}

func TestStart_NotFoundAbsolutePath(t *testing.T) {
	l := New(nil)
	missing := filepath.Join(t.TempDir(), "missing", "app.exe")
	_, err := l.Start(context.Background(), Command{Path: missing})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStart_EmptyCommand(t *testing.T) {
	_, err := New(nil).Start(context.Background(), Command{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStart_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Start(ctx, Command{Path: os.Args[0]})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStart_LaunchesProcess(t *testing.T) {
	// Re-run the test binary with a filter that matches nothing so it exits at once.
	l := New(nil)
	proc, err := l.Start(context.Background(), Command{Path: os.Args[0], Args: []string{"-test.run=^$"}})
	if err != nil {
		t.Fatal(err)
	}
	if proc.PID <= 0 {
		t.Errorf("expected a positive pid, got %d", proc.PID)
	}
	if proc.Command.Path != os.Args[0] {
		t.Errorf("command path: got %q", proc.Command.Path)
	}
	if proc.Started.IsZero() {
		t.Error("start time should be set")
	}
}
