package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mj1618/terminator-agent/internal/activation"
	"github.com/mj1618/terminator-agent/internal/agent"
	"github.com/mj1618/terminator-agent/internal/catalog"
	"github.com/mj1618/terminator-agent/internal/config"
	"github.com/mj1618/terminator-agent/internal/desktopuse"
	"github.com/mj1618/terminator-agent/internal/launcher"
	"github.com/mj1618/terminator-agent/internal/logging"
	"github.com/mj1618/terminator-agent/internal/platform"
	_ "github.com/mj1618/terminator-agent/internal/platform/robot"
	"github.com/mj1618/terminator-agent/internal/typing"
	"github.com/mj1618/terminator-agent/internal/voice"
	"github.com/spf13/cobra"
)

// runtime is everything a command needs, built once from flags and config.
type runtime struct {
	cfg      config.Config
	log      *slog.Logger
	logFile  io.Closer
	provider *platform.Provider // nil when no input backend is available
	catalog  *catalog.Catalog
	agent    *agent.Agent
}

func (r *runtime) Close() error {
	if r.logFile == nil {
		return nil
	}
	return r.logFile.Close()
}

// newRuntime loads config, builds the logger (console logs go to console)
// and wires the agent pipeline.
func newRuntime(cmd *cobra.Command, console io.Writer) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, closer, err := newLogger(cmd, cfg, console)
	if err != nil {
		return nil, err
	}

	provider, err := platform.NewProvider()
	if err != nil {
		if !errors.Is(err, platform.ErrUnsupported) {
			closer.Close()
			return nil, err
		}
		log.Warn("Input backend unavailable; apps can be opened but not typed into", "error", err)
		provider = nil
	}

	cat := cfg.Catalog()
	return &runtime{
		cfg:      cfg,
		log:      log,
		logFile:  closer,
		provider: provider,
		catalog:  cat,
		agent:    buildAgent(cfg, cat, provider, log),
	}, nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("TERMINATOR_CONFIG")
	}
	return config.Load(path)
}

func newLogger(cmd *cobra.Command, cfg config.Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	noColor, _ := cmd.Flags().GetBool("no-color")

	file := cfg.LogFile
	if f, _ := cmd.Flags().GetString("log-file"); f != "" {
		file = f
	}
	if file == "-" {
		file = ""
	}

	return logging.New(logging.Options{
		Level:    level,
		Console:  console,
		NoColor:  noColor,
		FilePath: file,
	})
}

// buildAgent wires the pipeline. Without a provider, or without its
// input half, the agent can still launch applications.
func buildAgent(cfg config.Config, cat *catalog.Catalog, provider *platform.Provider, log *slog.Logger) *agent.Agent {
	var (
		act   agent.Activator
		typer agent.Typer
	)
	if provider != nil && provider.Inputter != nil && provider.WindowManager != nil {
		act = activation.New(provider.WindowManager, provider.Inputter, cat, cfg.ActivationOptions())
		typer = typing.New(provider.Inputter, cfg.TypingOptions())
	}
	return agent.New(cat, launcher.New(log), act, typer, log)
}

// newDispatcher routes voice actions to the desktop-use server at url, with
// the local agent as fallback opener and typer.
func newDispatcher(url string, a *agent.Agent, log *slog.Logger) *voice.Dispatcher {
	var remote voice.Opener
	if url != "" && url != "-" {
		remote = desktopuse.New(url)
	}
	return voice.NewDispatcher(remote, a, a, log)
}

// requireProvider returns the provider or a descriptive error.
func requireProvider(rt *runtime) (*platform.Provider, error) {
	if rt.provider == nil {
		return nil, platform.ErrUnsupported
	}
	return rt.provider, nil
}

// textArg returns the positional argument at i, falling back to flag
// when one is named.
func textArg(cmd *cobra.Command, args []string, i int, flag string) string {
	if len(args) > i {
		return args[i]
	}
	if flag == "" {
		return ""
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func errNoText(what string) error {
	return fmt.Errorf("specify %s as a positional argument or flag", what)
}
