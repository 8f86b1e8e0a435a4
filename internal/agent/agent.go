// Package agent runs the execute pipeline: resolve an alias, launch the
// application, then optionally focus its window and type into it.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mj1618/terminator-agent/internal/activation"
	"github.com/mj1618/terminator-agent/internal/catalog"
	"github.com/mj1618/terminator-agent/internal/heuristic"
	"github.com/mj1618/terminator-agent/internal/launcher"
)

// Request names an application and optional text to type into it.
type Request struct {
	App    string `json:"app"    yaml:"app"`
	Action string `json:"action" yaml:"action,omitempty"`
}

// Result is a successful pipeline run.
type Result struct {
	ID         string              `json:"id"                   yaml:"id"`
	Status     string              `json:"status"               yaml:"status"`
	Message    string              `json:"message"              yaml:"message"`
	App        string              `json:"app"                  yaml:"app"`
	Command    []string            `json:"command"              yaml:"command"`
	PID        int                 `json:"pid"                  yaml:"pid"`
	Activation *activation.Outcome `json:"activation,omitempty" yaml:"activation,omitempty"`
	Typed      int                 `json:"typed,omitempty"      yaml:"typed,omitempty"`
	SavedAs    string              `json:"saved_as,omitempty"   yaml:"saved_as,omitempty"`
	Warnings   []Warning           `json:"warnings,omitempty"   yaml:"warnings,omitempty"`
}

// StatusSuccess is the only status a Result carries.
const StatusSuccess = "success"

// Launcher starts processes.
type Launcher interface {
	Start(ctx context.Context, cmd launcher.Command) (launcher.Process, error)
}

// Activator focuses the window of a launched alias.
type Activator interface {
	Activate(ctx context.Context, alias string, pid int) (activation.Outcome, error)
}

// Typer synthesizes keystrokes into the focused window.
type Typer interface {
	Type(ctx context.Context, text string) (int, error)
	AutoSave(ctx context.Context) (string, error)
}

// Agent executes requests. Activator and Typer may be nil when the
// platform has no input backend; requests with action text then succeed
// with a warning.
type Agent struct {
	catalog   *catalog.Catalog
	launcher  Launcher
	activator Activator
	typer     Typer
	log       *slog.Logger
	newID     func() string

	// inputMu serializes the activate+type phase: the system input focus is
	// shared by every request.
	inputMu sync.Mutex
}

// New returns an Agent.
func New(cat *catalog.Catalog, l Launcher, a Activator, t Typer, log *slog.Logger) *Agent {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Agent{
		catalog:   cat,
		launcher:  l,
		activator: a,
		typer:     t,
		log:       log,
		newID:     uuid.NewString,
	}
}

// Catalog returns the alias configuration the agent resolves against.
func (a *Agent) Catalog() *catalog.Catalog { return a.catalog }

// Execute runs the pipeline for req. Only an invalid request or a launch
// failure is returned as an error; activation and typing problems are
// reported as warnings because the application was still opened.
func (a *Agent) Execute(ctx context.Context, req Request) (Result, error) {
	id := a.newID()
	log := a.log.With("id", id)

	a.transition(ctx, log, StateReceived, fmt.Sprintf("Request received: app='%s', action='%s'", req.App, req.Action))

	if strings.TrimSpace(req.App) == "" {
		return Result{}, a.fail(ctx, log, &Error{Kind: KindInvalid, Err: errors.New("'app' field is required")})
	}

	res := a.catalog.Resolve(req.App)
	cmd := launcher.Command{Path: res.Command}
	urlLaunch := a.catalog.IsBrowser(res.Alias) && isURL(req.Action)
	if urlLaunch {
		cmd.Args = []string{req.Action}
	}
	a.transition(ctx, log, StateResolved, fmt.Sprintf("Resolved '%s' to '%s'", req.App, cmd.String()),
		"alias", res.Alias, "source", res.Source)

	proc, err := a.launcher.Start(ctx, cmd)
	if err != nil {
		return Result{}, a.fail(ctx, log, launchError(cmd.Path, err))
	}
	a.transition(ctx, log, StateLaunched, fmt.Sprintf("'%s' opened with PID: %d", req.App, proc.PID), "pid", proc.PID)

	result := Result{
		ID:      id,
		Status:  StatusSuccess,
		App:     req.App,
		Command: cmd.Argv(),
		PID:     proc.PID,
	}

	switch {
	case urlLaunch:
		result.Message = fmt.Sprintf("Action performed: Opened '%s' in '%s'", req.Action, req.App)
	case req.Action == "":
		result.Message = fmt.Sprintf("Action performed: Opened '%s'", req.App)
	default:
		a.typeInto(ctx, log, res.Alias, req, &result)
	}

	a.transition(ctx, log, StateResponded, result.Message)
	return result, nil
}

// typeInto runs the activate+type phase and fills in result.
func (a *Agent) typeInto(ctx context.Context, log *slog.Logger, alias string, req Request, result *Result) {
	if a.activator == nil || a.typer == nil {
		a.warn(log, result, KindTypingFailed, "input synthesis is not available on this platform")
		result.Message = fmt.Sprintf("Opened '%s' but could not type: input synthesis is not available on this platform", req.App)
		return
	}

	a.inputMu.Lock()
	defer a.inputMu.Unlock()

	outcome, err := a.activator.Activate(ctx, alias, result.PID)
	if err != nil {
		a.warn(log, result, KindActivationFailed, err.Error())
		result.Message = fmt.Sprintf("Opened '%s' but could not focus its window: %v", req.App, err)
		return
	}
	result.Activation = &outcome
	a.transition(ctx, log, StateActivated, fmt.Sprintf("Window activation: %s", outcome.Confidence),
		"title", outcome.Title, "reason", outcome.Reason, "waited", outcome.Waited)

	n, err := a.typer.Type(ctx, req.Action)
	result.Typed = n
	if err != nil {
		a.warn(log, result, KindTypingFailed, err.Error())
		result.Message = fmt.Sprintf("Opened '%s' but typing failed after %d characters: %v", req.App, n, err)
		return
	}
	result.Message = fmt.Sprintf("Action performed: Typed '%s' into '%s'", req.Action, req.App)

	if a.catalog.IsEditor(alias) && heuristic.LooksLikeCode(req.Action) {
		log.InfoContext(ctx, "Content looks like code, attempting auto-save", "score", heuristic.Score(req.Action))
		name, err := a.typer.AutoSave(ctx)
		if err != nil {
			a.warn(log, result, KindTypingFailed, "auto-save: "+err.Error())
			result.Message += fmt.Sprintf(" (auto-save failed: %v)", err)
		} else {
			result.SavedAs = name
			result.Message += fmt.Sprintf(" and auto-saved as '%s'", name)
		}
	}

	if outcome.Confidence == activation.ConfidenceFallback {
		result.Message += " (window focus unverified)"
	}
	a.transition(ctx, log, StateTyped, fmt.Sprintf("Typed %d characters into '%s'", n, req.App))
}

func (a *Agent) transition(ctx context.Context, log *slog.Logger, state State, msg string, args ...any) {
	log.InfoContext(ctx, msg, append([]any{"state", state}, args...)...)
}

func (a *Agent) fail(ctx context.Context, log *slog.Logger, err *Error) error {
	log.ErrorContext(ctx, err.Error(), "state", StateError, "kind", err.Kind)
	return err
}

func (a *Agent) warn(log *slog.Logger, result *Result, kind Kind, msg string) {
	log.Warn(msg, "kind", kind)
	result.Warnings = append(result.Warnings, Warning{Kind: kind, Message: msg})
}

func launchError(path string, err error) *Error {
	switch {
	case errors.Is(err, launcher.ErrNotFound):
		return &Error{Kind: KindNotFound, Target: path, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindUnexpected, Target: path, Err: err}
	default:
		return &Error{Kind: KindLaunchFailed, Target: path, Err: err}
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
