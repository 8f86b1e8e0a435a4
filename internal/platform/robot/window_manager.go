//go:build cgo

package robot

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
	"github.com/mj1618/terminator-agent/internal/model"
	"github.com/mj1618/terminator-agent/internal/platform"
)

// WindowManager implements platform.WindowManager on top of robotgo's
// process and window helpers.
type WindowManager struct{}

// NewWindowManager creates a new robotgo window manager.
func NewWindowManager() *WindowManager {
	return &WindowManager{}
}

// ListWindows returns one entry per process that owns a titled window.
func (wm *WindowManager) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	procs, err := robotgo.Process()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	activePID := robotgo.GetPid()

	var windows []model.Window
	for _, p := range procs {
		if opts.PID != 0 && p.Pid != opts.PID {
			continue
		}
		if opts.App != "" && !strings.EqualFold(trimExe(p.Name), trimExe(opts.App)) {
			continue
		}
		title := robotgo.GetTitle(p.Pid)
		if title == "" {
			continue
		}
		windows = append(windows, model.Window{
			App:     p.Name,
			PID:     p.Pid,
			Title:   title,
			Focused: p.Pid == activePID,
		})
	}
	return windows, nil
}

func (wm *WindowManager) ActiveWindow() (model.Window, error) {
	pid := robotgo.GetPid()
	if pid == 0 {
		return model.Window{}, fmt.Errorf("failed to get active window")
	}
	return model.Window{
		PID:     pid,
		Title:   robotgo.GetTitle(),
		Focused: true,
	}, nil
}

func (wm *WindowManager) FocusWindow(opts platform.FocusOptions) error {
	pid := opts.PID

	// Resolve PID from app name
	if pid == 0 && opts.App != "" {
		ids, err := robotgo.FindIds(trimExe(opts.App))
		if err != nil {
			return fmt.Errorf("failed to find app %q: %w", opts.App, err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no process found for app %q", opts.App)
		}
		pid = ids[0]
	}

	// Resolve PID from window title substring
	if pid == 0 && opts.Window != "" {
		windows, err := wm.ListWindows(platform.ListOptions{})
		if err != nil {
			return err
		}
		for _, w := range windows {
			if platform.TitleMatches(w.Title, opts.Window) {
				pid = w.PID
				break
			}
		}
		if pid == 0 {
			return fmt.Errorf("no window found matching title %q", opts.Window)
		}
	}

	if pid == 0 {
		return fmt.Errorf("could not resolve target: specify app, pid, or window")
	}
	if err := robotgo.ActivePid(pid); err != nil {
		return fmt.Errorf("failed to activate PID %d: %w", pid, err)
	}
	return nil
}

func trimExe(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
