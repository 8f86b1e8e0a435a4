package platform

import "github.com/mj1618/terminator-agent/internal/model"

// Inputter synthesizes keyboard input into whatever window holds focus.
type Inputter interface {
	// TypeText types text one character at a time, sleeping delayMs between keys.
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}

// WindowManager enumerates and focuses top-level windows.
type WindowManager interface {
	ListWindows(opts ListOptions) ([]model.Window, error)
	ActiveWindow() (model.Window, error)
	FocusWindow(opts FocusOptions) error
}
