// Package activation brings a freshly launched application's window to the
// foreground before input is synthesized into it.
//
// Activation is best effort. Nothing confirms that keyboard focus actually
// landed in the intended window afterwards, so every Outcome is reported as
// unverified and callers can see whether a title match or the blind
// window-switch fallback was used.
package activation

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/terminator-agent/internal/model"
	"github.com/mj1618/terminator-agent/internal/platform"
)

// Confidence describes how the target window was chosen.
type Confidence string

const (
	// ConfidenceMatched: a window matching the alias title was activated.
	ConfidenceMatched Confidence = "matched"
	// ConfidenceAlreadyActive: the matching window already had focus.
	ConfidenceAlreadyActive Confidence = "already-active"
	// ConfidenceFallback: the window-switch keystroke was sent blind.
	ConfidenceFallback Confidence = "fallback"
)

// Outcome is the result of an activation attempt.
type Outcome struct {
	Confidence Confidence `yaml:"confidence"       json:"confidence"`
	Title      string     `yaml:"title,omitempty"  json:"title,omitempty"`
	PID        int        `yaml:"pid,omitempty"    json:"pid,omitempty"`
	Reason     string     `yaml:"reason,omitempty" json:"reason,omitempty"`
	Waited     string     `yaml:"waited"           json:"waited"`
	// Verified is always false: focus is never confirmed.
	Verified bool `yaml:"verified" json:"verified"`
}

// Catalog is the subset of catalog.Catalog used here.
type Catalog interface {
	WindowTitle(alias string) (string, bool)
	IsHeavy(alias string) bool
}

// Options holds activation timings.
type Options struct {
	// LaunchDelay is waited before the fallback when the alias has no
	// window title to poll for.
	LaunchDelay      time.Duration
	HeavyLaunchDelay time.Duration
	// ReadyTimeout bounds the poll for a matching window.
	ReadyTimeout      time.Duration
	HeavyReadyTimeout time.Duration
	PollInterval      time.Duration
	// SettleDelay follows a successful activation.
	SettleDelay time.Duration
	// FallbackKeys is the global window-switch combo.
	FallbackKeys  []string
	FallbackDelay time.Duration
}

// DefaultOptions mirrors the timings of the original launch-then-type flow.
func DefaultOptions() Options {
	return Options{
		LaunchDelay:       2 * time.Second,
		HeavyLaunchDelay:  5 * time.Second,
		ReadyTimeout:      3 * time.Second,
		HeavyReadyTimeout: 8 * time.Second,
		PollInterval:      250 * time.Millisecond,
		SettleDelay:       500 * time.Millisecond,
		FallbackKeys:      []string{"alt", "tab"},
		FallbackDelay:     500 * time.Millisecond,
	}
}

// Activator focuses application windows.
type Activator struct {
	windows platform.WindowManager
	keys    platform.Inputter
	catalog Catalog
	opts    Options
}

// New returns an Activator.
func New(windows platform.WindowManager, keys platform.Inputter, catalog Catalog, opts Options) *Activator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if len(opts.FallbackKeys) == 0 {
		opts.FallbackKeys = DefaultOptions().FallbackKeys
	}
	return &Activator{windows: windows, keys: keys, catalog: catalog, opts: opts}
}

// Activate waits for the window of alias (preferring one owned by pid) and
// activates it. When no title mapping exists, no window appears in time, or
// activation fails, it degrades to the fallback keystroke. An error is
// returned only if ctx is done or the fallback keystroke itself fails.
func (a *Activator) Activate(ctx context.Context, alias string, pid int) (Outcome, error) {
	start := time.Now()
	heavy := a.catalog.IsHeavy(alias)

	title, ok := a.catalog.WindowTitle(alias)
	if !ok {
		delay := a.opts.LaunchDelay
		if heavy {
			delay = a.opts.HeavyLaunchDelay
		}
		if err := sleep(ctx, delay); err != nil {
			return Outcome{}, err
		}
		return a.fallback(ctx, start, fmt.Sprintf("no window title mapped for %q", alias))
	}

	timeout := a.opts.ReadyTimeout
	if heavy {
		timeout = a.opts.HeavyReadyTimeout
	}
	win, err := a.waitForWindow(ctx, title, pid, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		return a.fallback(ctx, start, err.Error())
	}

	if a.isActive(win) {
		return Outcome{
			Confidence: ConfidenceAlreadyActive,
			Title:      win.Title,
			PID:        win.PID,
			Waited:     time.Since(start).Round(time.Millisecond).String(),
		}, nil
	}

	if err := a.windows.FocusWindow(platform.FocusOptions{PID: win.PID, Window: win.Title}); err != nil {
		return a.fallback(ctx, start, fmt.Sprintf("activate %q: %v", win.Title, err))
	}
	if err := sleep(ctx, a.opts.SettleDelay); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Confidence: ConfidenceMatched,
		Title:      win.Title,
		PID:        win.PID,
		Waited:     time.Since(start).Round(time.Millisecond).String(),
	}, nil
}

// waitForWindow polls until a window whose title contains title exists.
func (a *Activator) waitForWindow(ctx context.Context, title string, pid int, timeout time.Duration) (model.Window, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		windows, err := a.windows.ListWindows(platform.ListOptions{})
		if err != nil {
			lastErr = err
		} else if w, ok := pickWindow(windows, title, pid); ok {
			return w, nil
		}

		if !time.Now().Before(deadline) {
			if lastErr != nil {
				return model.Window{}, fmt.Errorf("list windows: %w", lastErr)
			}
			return model.Window{}, fmt.Errorf("no window matching %q after %s", title, timeout)
		}
		if err := sleep(ctx, a.opts.PollInterval); err != nil {
			return model.Window{}, err
		}
	}
}

// pickWindow returns the first title match, preferring the launched pid.
func pickWindow(windows []model.Window, title string, pid int) (model.Window, bool) {
	var first *model.Window
	for i := range windows {
		w := &windows[i]
		if !platform.TitleMatches(w.Title, title) {
			continue
		}
		if pid != 0 && w.PID == pid {
			return *w, true
		}
		if first == nil {
			first = w
		}
	}
	if first == nil {
		return model.Window{}, false
	}
	return *first, true
}

func (a *Activator) isActive(w model.Window) bool {
	if w.Focused {
		return true
	}
	active, err := a.windows.ActiveWindow()
	if err != nil {
		return false
	}
	return active.PID == w.PID && active.Title == w.Title
}

func (a *Activator) fallback(ctx context.Context, start time.Time, reason string) (Outcome, error) {
	if err := a.keys.KeyCombo(a.opts.FallbackKeys); err != nil {
		return Outcome{}, fmt.Errorf("fallback %s: %w", platform.FormatKeys(a.opts.FallbackKeys), err)
	}
	if err := sleep(ctx, a.opts.FallbackDelay); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Confidence: ConfidenceFallback,
		Reason:     reason,
		Waited:     time.Since(start).Round(time.Millisecond).String(),
	}, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
