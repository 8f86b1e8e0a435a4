// Package voice maps a voice assistant's structured output onto desktop
// actions: open an application, open a URL, type text or search the web.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mj1618/terminator-agent/internal/desktopuse"
)

// Payload is the assistant's end-of-call analysis.
type Payload struct {
	Summary        string          `json:"summary"        yaml:"summary"`
	StructuredData *StructuredData `json:"structuredData" yaml:"structuredData"`
}

// StructuredData holds the extracted intent. Either field may be empty.
type StructuredData struct {
	AppName     string `json:"appName"     yaml:"appName"`
	SearchQuery string `json:"searchQuery" yaml:"searchQuery"`
}

// Action is what the dispatcher decided to do.
type Action string

const (
	ActionOpenApp Action = "open_application"
	ActionOpenURL Action = "open_url"
	ActionType    Action = "type_text"
	ActionSearch  Action = "search_web"
	ActionNone    Action = "none"
)

// SearchURL prefixes the escaped query for web searches.
const SearchURL = "https://www.google.com/search?q="

// ErrNoStructuredData is returned for payloads without structuredData.
var ErrNoStructuredData = errors.New("'structuredData' field is missing or not an object")

// Outcome reports a dispatch.
type Outcome struct {
	Action Action `json:"action"           yaml:"action"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	OK     bool   `json:"ok"               yaml:"ok"`
	// Via is "remote" or "local".
	Via    string `json:"via,omitempty"    yaml:"via,omitempty"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Opener opens applications and URLs.
type Opener interface {
	OpenApplication(ctx context.Context, name string) error
	OpenURL(ctx context.Context, url string) error
}

// Typer types into the focused window.
type Typer interface {
	TypeText(ctx context.Context, text string) error
}

// Dispatcher routes payloads. Remote is tried first for opening; Local is
// used when Remote is nil or unreachable. Typing always goes to Typer.
type Dispatcher struct {
	remote Opener
	local  Opener
	typer  Typer
	log    *slog.Logger
}

// NewDispatcher returns a Dispatcher. Any of remote, local and typer may be nil.
func NewDispatcher(remote, local Opener, typer Typer, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{remote: remote, local: local, typer: typer, log: log}
}

// Plan decides the action for p without performing it.
func Plan(p Payload) (Action, string, error) {
	if p.StructuredData == nil {
		return ActionNone, "", ErrNoStructuredData
	}
	app := strings.TrimSpace(p.StructuredData.AppName)
	query := strings.TrimSpace(p.StructuredData.SearchQuery)

	switch {
	case app != "" && query == "":
		return ActionOpenApp, app, nil
	case query == "":
		return ActionNone, "", nil
	case LooksLikeURL(query):
		return ActionOpenURL, query, nil
	case mentionsTyping(p.Summary):
		return ActionType, query, nil
	default:
		return ActionSearch, SearchURL + url.QueryEscape(query), nil
	}
}

// Dispatch plans and performs the action for p. The error is non-nil only
// for malformed payloads; failed actions come back with OK=false.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) (Outcome, error) {
	d.log.InfoContext(ctx, "Processing voice data", "summary", p.Summary)

	action, target, err := Plan(p)
	if err != nil {
		d.log.WarnContext(ctx, "Rejected voice data", "error", err)
		return Outcome{}, err
	}
	out := Outcome{Action: action, Target: target}

	switch action {
	case ActionNone:
		out.Detail = "no specific action identified"
		d.log.InfoContext(ctx, "No specific action identified from structured data")
		return out, nil
	case ActionOpenApp:
		out.Via, err = d.open(ctx, func(o Opener, _ bool) error { return o.OpenApplication(ctx, target) })
	case ActionOpenURL, ActionSearch:
		out.Via, err = d.openURL(ctx, target)
	case ActionType:
		out.Via = "local"
		err = d.typeText(ctx, target)
	}

	if err != nil {
		out.Detail = err.Error()
		d.log.WarnContext(ctx, "Voice action could not be executed", "action", action, "target", target, "error", err)
		return out, nil
	}
	out.OK = true
	d.log.InfoContext(ctx, "Voice action executed", "action", action, "target", target, "via", out.Via)
	return out, nil
}

func (d *Dispatcher) openURL(ctx context.Context, target string) (string, error) {
	return d.open(ctx, func(o Opener, local bool) error {
		if local {
			return o.OpenURL(ctx, withScheme(target))
		}
		return o.OpenURL(ctx, target)
	})
}

// open runs fn against the remote opener, falling back to the local one
// when the remote server is absent or unreachable.
func (d *Dispatcher) open(ctx context.Context, fn func(o Opener, local bool) error) (string, error) {
	if d.remote != nil {
		err := fn(d.remote, false)
		if err == nil {
			return "remote", nil
		}
		if !errors.Is(err, desktopuse.ErrUnavailable) || d.local == nil {
			return "remote", err
		}
		d.log.WarnContext(ctx, "Remote automation server unavailable, falling back to local launch", "error", err)
	}
	if d.local == nil {
		return "", errors.New("no automation backend is configured")
	}
	return "local", fn(d.local, true)
}

func (d *Dispatcher) typeText(ctx context.Context, text string) error {
	if d.typer == nil {
		return errors.New("typing is not supported without a local input backend")
	}
	if err := d.typer.TypeText(ctx, text); err != nil {
		return fmt.Errorf("typing %q: %w", text, err)
	}
	return nil
}

// LooksLikeURL reports whether s has an http(s) scheme or its first word
// contains a dot, as in "github.com" or "news.ycombinator.com/best".
func LooksLikeURL(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	first, _, _ := strings.Cut(s, " ")
	return strings.Contains(first, ".")
}

func mentionsTyping(summary string) bool {
	s := strings.ToLower(summary)
	return strings.Contains(s, "type") || strings.Contains(s, "write")
}

func withScheme(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}
