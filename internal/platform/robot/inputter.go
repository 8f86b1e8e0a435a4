//go:build cgo

package robot

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
)

// Inputter implements platform.Inputter with robotgo key events.
type Inputter struct{}

// NewInputter creates a new robotgo inputter.
func NewInputter() *Inputter {
	return &Inputter{}
}

func (inp *Inputter) TypeText(text string, delayMs int) error {
	for _, ch := range text {
		if ch == '\n' {
			if err := robotgo.KeyTap("enter"); err != nil {
				return fmt.Errorf("failed to type newline: %w", err)
			}
		} else {
			robotgo.TypeStr(string(ch))
		}
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	}
	return nil
}

func (inp *Inputter) KeyCombo(keys []string) error {
	key, modifiers, err := splitCombo(keys)
	if err != nil {
		return err
	}
	args := make([]interface{}, len(modifiers))
	for i, m := range modifiers {
		args[i] = m
	}
	if err := robotgo.KeyTap(key, args...); err != nil {
		return fmt.Errorf("key combo %v: %w", keys, err)
	}
	return nil
}
