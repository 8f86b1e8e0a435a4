// Package launcher starts applications as detached child processes.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrNotFound reports that the executable could not be located.
var ErrNotFound = errors.New("executable not found")

// Command is an executable plus optional arguments.
type Command struct {
	Path string   `yaml:"path"           json:"path"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// Argv returns the command as a single slice, executable first.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Process describes a started child.
type Process struct {
	PID     int       `yaml:"pid"     json:"pid"`
	Command Command   `yaml:"command" json:"command"`
	Started time.Time `yaml:"started" json:"started"`
}

// Launcher starts commands without waiting for them to exit.
type Launcher struct {
	log *slog.Logger
}

// New returns a Launcher that logs child exits to log.
func New(log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Launcher{log: log}
}

// Start launches cmd as an independent process. The child is not tied to
// ctx: cancelling the request must not kill the application it opened.
// A missing executable yields an error wrapping ErrNotFound.
func (l *Launcher) Start(ctx context.Context, cmd Command) (Process, error) {
	if err := ctx.Err(); err != nil {
		return Process{}, err
	}
	if strings.TrimSpace(cmd.Path) == "" {
		return Process{}, fmt.Errorf("%w: empty command", ErrNotFound)
	}

	c := exec.Command(cmd.Path, cmd.Args...)
	c.SysProcAttr = detachedAttr()

	if err := c.Start(); err != nil {
		if isNotFound(err) {
			return Process{}, fmt.Errorf("%w: %q: %v", ErrNotFound, cmd.Path, err)
		}
		return Process{}, fmt.Errorf("failed to start %q: %w", cmd.Path, err)
	}

	proc := Process{PID: c.Process.Pid, Command: cmd, Started: time.Now()}

	// Reap the child so it does not linger as a zombie.
	go func() {
		err := c.Wait()
		l.log.Debug("child exited", "pid", proc.PID, "command", cmd.String(), "err", err)
	}()

	return proc, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
