package activation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mj1618/terminator-agent/internal/catalog"
	"github.com/mj1618/terminator-agent/internal/model"
	"github.com/mj1618/terminator-agent/internal/platform/platformtest"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{Alias: "notepad", Path: "notepad.exe", WindowTitle: "Notepad"},
		{Alias: "word", Path: "winword.exe", WindowTitle: "Word", Heavy: true},
		{Alias: "mystery", Path: "mystery.exe"},
	}, "", "notepad")
}

func fastOptions() Options {
	return Options{
		ReadyTimeout:      50 * time.Millisecond,
		HeavyReadyTimeout: 50 * time.Millisecond,
		PollInterval:      time.Millisecond,
		FallbackKeys:      []string{"alt", "tab"},
	}
}

func TestActivate_MatchesAndFocuses(t *testing.T) {
	wm := &platformtest.WindowManager{
		Frames: [][]model.Window{
			{{App: "explorer.exe", PID: 1, Title: "Downloads"}},
			{{App: "explorer.exe", PID: 1, Title: "Downloads"}, {App: "notepad.exe", PID: 7, Title: "Untitled - Notepad"}},
		},
		Active: model.Window{PID: 1, Title: "Downloads"},
	}
	keys := &platformtest.Inputter{}

	out, err := New(wm, keys, testCatalog(), fastOptions()).Activate(context.Background(), "notepad", 7)
	if err != nil {
		t.Fatal(err)
	}
	if out.Confidence != ConfidenceMatched {
		t.Errorf("confidence: got %q, want %q", out.Confidence, ConfidenceMatched)
	}
	if out.PID != 7 || out.Title != "Untitled - Notepad" {
		t.Errorf("unexpected window: %+v", out)
	}
	if out.Verified {
		t.Error("outcome must never claim verification")
	}
	if len(wm.Focused) != 1 || wm.Focused[0].PID != 7 {
		t.Errorf("expected focus on pid 7, got %+v", wm.Focused)
	}
	if wm.ListCalls() < 2 {
		t.Errorf("expected polling, got %d list calls", wm.ListCalls())
	}
	if len(keys.ComboList()) != 0 {
		t.Errorf("fallback should not fire, got %v", keys.ComboList())
	}
}

func TestActivate_PrefersLaunchedPID(t *testing.T) {
	wm := &platformtest.WindowManager{
		Frames: [][]model.Window{{
			{PID: 3, Title: "old.txt - Notepad"},
			{PID: 9, Title: "Untitled - Notepad"},
		}},
	}
	out, err := New(wm, &platformtest.Inputter{}, testCatalog(), fastOptions()).Activate(context.Background(), "notepad", 9)
	if err != nil {
		t.Fatal(err)
	}
	if out.PID != 9 {
		t.Errorf("expected launched pid 9, got %d", out.PID)
	}
}

func TestActivate_AlreadyActive(t *testing.T) {
	wm := &platformtest.WindowManager{
		Frames: [][]model.Window{{{PID: 7, Title: "Untitled - Notepad", Focused: true}}},
	}
	out, err := New(wm, &platformtest.Inputter{}, testCatalog(), fastOptions()).Activate(context.Background(), "notepad", 7)
	if err != nil {
		t.Fatal(err)
	}
	if out.Confidence != ConfidenceAlreadyActive {
		t.Errorf("confidence: got %q", out.Confidence)
	}
	if len(wm.Focused) != 0 {
		t.Error("an already active window should not be re-focused")
	}
}

func TestActivate_FallbackWhenNoWindowAppears(t *testing.T) {
	wm := &platformtest.WindowManager{}
	keys := &platformtest.Inputter{}

	out, err := New(wm, keys, testCatalog(), fastOptions()).Activate(context.Background(), "word", 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Confidence != ConfidenceFallback {
		t.Errorf("confidence: got %q, want fallback", out.Confidence)
	}
	if combos := keys.ComboList(); len(combos) != 1 || combos[0] != "alt+tab" {
		t.Errorf("expected alt+tab, got %v", combos)
	}
	if out.Reason == "" {
		t.Error("fallback should carry a reason")
	}
}

func TestActivate_FallbackWithoutTitleMapping(t *testing.T) {
	wm := &platformtest.WindowManager{}
	keys := &platformtest.Inputter{}

	out, err := New(wm, keys, testCatalog(), fastOptions()).Activate(context.Background(), "mystery", 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Confidence != ConfidenceFallback {
		t.Errorf("confidence: got %q", out.Confidence)
	}
	if wm.ListCalls() != 0 {
		t.Error("windows should not be listed without a title mapping")
	}
}

func TestActivate_FallbackWhenFocusFails(t *testing.T) {
	wm := &platformtest.WindowManager{
		Frames:   [][]model.Window{{{PID: 7, Title: "Notepad"}}},
		FocusErr: errors.New("access denied"),
	}
	keys := &platformtest.Inputter{}

	out, err := New(wm, keys, testCatalog(), fastOptions()).Activate(context.Background(), "notepad", 7)
	if err != nil {
		t.Fatal(err)
	}
	if out.Confidence != ConfidenceFallback {
		t.Errorf("confidence: got %q", out.Confidence)
	}
	if len(keys.ComboList()) != 1 {
		t.Error("expected the fallback keystroke")
	}
}

func TestActivate_FallbackKeystrokeFails(t *testing.T) {
	keys := &platformtest.Inputter{FailCombo: true}
	_, err := New(&platformtest.WindowManager{}, keys, testCatalog(), fastOptions()).Activate(context.Background(), "mystery", 0)
	if err == nil {
		t.Fatal("expected an error when the fallback keystroke fails")
	}
}

func TestActivate_Cancelled(t *testing.T) {
	opts := fastOptions()
	opts.ReadyTimeout = time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	keys := &platformtest.Inputter{}
	_, err := New(&platformtest.WindowManager{}, keys, testCatalog(), opts).Activate(ctx, "notepad", 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(keys.ComboList()) != 0 {
		t.Error("a cancelled activation should not send the fallback")
	}
}
