package agent

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoInput is reported when no input backend is configured.
var ErrNoInput = errors.New("input synthesis is not available on this platform")

// OpenApplication launches app without typing into it.
func (a *Agent) OpenApplication(ctx context.Context, app string) error {
	_, err := a.Execute(ctx, Request{App: app})
	return err
}

// OpenURL opens url (which must carry an http or https scheme) in the
// configured browser alias.
func (a *Agent) OpenURL(ctx context.Context, url string) error {
	browser := a.catalog.BrowserAlias()
	if browser == "" {
		return &Error{Kind: KindInvalid, Err: errors.New("no browser alias configured")}
	}
	if !isURL(url) {
		return &Error{Kind: KindInvalid, Err: fmt.Errorf("not an http(s) URL: %q", url)}
	}
	_, err := a.Execute(ctx, Request{App: browser, Action: url})
	return err
}

// TypeText types text into whichever window currently has focus.
func (a *Agent) TypeText(ctx context.Context, text string) error {
	if a.typer == nil {
		return &Error{Kind: KindTypingFailed, Err: ErrNoInput}
	}
	a.inputMu.Lock()
	defer a.inputMu.Unlock()

	n, err := a.typer.Type(ctx, text)
	if err != nil {
		return &Error{Kind: KindTypingFailed, Err: fmt.Errorf("after %d characters: %w", n, err)}
	}
	a.log.InfoContext(ctx, fmt.Sprintf("Typed %d characters into the focused window", n))
	return nil
}
