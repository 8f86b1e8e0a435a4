// Package platformtest provides in-memory platform backends for tests.
package platformtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mj1618/terminator-agent/internal/model"
	"github.com/mj1618/terminator-agent/internal/platform"
)

// Inputter records every keystroke it is asked to synthesize.
type Inputter struct {
	mu     sync.Mutex
	Typed  strings.Builder
	Combos []string
	// FailTyping and FailCombo make the matching calls return an error.
	FailTyping bool
	FailCombo  bool
}

func (f *Inputter) TypeText(text string, delayMs int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailTyping {
		return fmt.Errorf("typing blocked")
	}
	f.Typed.WriteString(text)
	return nil
}

func (f *Inputter) KeyCombo(keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCombo {
		return fmt.Errorf("combo blocked")
	}
	f.Combos = append(f.Combos, platform.FormatKeys(keys))
	return nil
}

// Text returns everything typed so far.
func (f *Inputter) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Typed.String()
}

// ComboList returns a copy of the combos pressed so far.
func (f *Inputter) ComboList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Combos...)
}

// WindowManager serves a scripted window list.
type WindowManager struct {
	mu sync.Mutex
	// Frames are returned by successive ListWindows calls; the last frame
	// repeats once exhausted.
	Frames   [][]model.Window
	Active   model.Window
	Focused  []platform.FocusOptions
	ListErr  error
	FocusErr error
	calls    int
}

func (f *WindowManager) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if len(f.Frames) == 0 {
		return nil, nil
	}
	i := f.calls - 1
	if i >= len(f.Frames) {
		i = len(f.Frames) - 1
	}
	return f.Frames[i], nil
}

func (f *WindowManager) ActiveWindow() (model.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Active.PID == 0 {
		return model.Window{}, fmt.Errorf("no active window")
	}
	return f.Active, nil
}

func (f *WindowManager) FocusWindow(opts platform.FocusOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FocusErr != nil {
		return f.FocusErr
	}
	f.Focused = append(f.Focused, opts)
	return nil
}

// ListCalls reports how many times ListWindows was called.
func (f *WindowManager) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
