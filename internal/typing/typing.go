// Package typing synthesizes human-paced keyboard input and the editor
// auto-save sequence.
package typing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/mj1618/terminator-agent/internal/platform"
)

// Options holds typing cadence and the auto-save sequence.
type Options struct {
	// Each key is followed by a delay drawn uniformly from [MinKeyDelay, MaxKeyDelay].
	MinKeyDelay time.Duration
	MaxKeyDelay time.Duration

	SaveKeys        []string
	SaveDialogDelay time.Duration
	// SaveFilename is typed into the save dialog. Every auto-save reuses it,
	// so an existing file of that name is overwritten.
	SaveFilename string
	ConfirmKeys  []string
}

// DefaultOptions returns the stock cadence and ctrl+s save sequence.
func DefaultOptions() Options {
	return Options{
		MinKeyDelay:     30 * time.Millisecond,
		MaxKeyDelay:     120 * time.Millisecond,
		SaveKeys:        []string{"ctrl", "s"},
		SaveDialogDelay: time.Second,
		SaveFilename:    "code_snippet.txt",
		ConfirmKeys:     []string{"enter"},
	}
}

// Synthesizer types into the focused window.
type Synthesizer struct {
	keys   platform.Inputter
	opts   Options
	jitter func() time.Duration
}

// New returns a Synthesizer.
func New(keys platform.Inputter, opts Options) *Synthesizer {
	if opts.MaxKeyDelay < opts.MinKeyDelay {
		opts.MaxKeyDelay = opts.MinKeyDelay
	}
	s := &Synthesizer{keys: keys, opts: opts}
	s.jitter = s.keyDelay
	return s
}

func (s *Synthesizer) keyDelay() time.Duration {
	span := s.opts.MaxKeyDelay - s.opts.MinKeyDelay
	if span <= 0 {
		return s.opts.MinKeyDelay
	}
	return s.opts.MinKeyDelay + time.Duration(rand.Int64N(int64(span)+1))
}

// Type sends text one character at a time and returns how many characters
// were sent before any error.
func (s *Synthesizer) Type(ctx context.Context, text string) (int, error) {
	n := 0
	for _, ch := range text {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := s.keys.TypeText(string(ch), 0); err != nil {
			return n, fmt.Errorf("type character %d: %w", n+1, err)
		}
		n++
		if err := sleep(ctx, s.jitter()); err != nil {
			return n, err
		}
	}
	return n, nil
}

// AutoSave presses the save combo, waits for the dialog, types the fixed
// filename and confirms. It returns the filename used.
func (s *Synthesizer) AutoSave(ctx context.Context) (string, error) {
	if err := s.keys.KeyCombo(s.opts.SaveKeys); err != nil {
		return "", fmt.Errorf("press %s: %w", platform.FormatKeys(s.opts.SaveKeys), err)
	}
	if err := sleep(ctx, s.opts.SaveDialogDelay); err != nil {
		return "", err
	}
	if _, err := s.Type(ctx, s.opts.SaveFilename); err != nil {
		return "", fmt.Errorf("type filename: %w", err)
	}
	if err := s.keys.KeyCombo(s.opts.ConfirmKeys); err != nil {
		return "", fmt.Errorf("confirm save: %w", err)
	}
	return s.opts.SaveFilename, nil
}

// TypeText satisfies callers that type into whatever window has focus
// without counting characters.
func (s *Synthesizer) TypeText(ctx context.Context, text string) error {
	_, err := s.Type(ctx, text)
	return err
}

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
