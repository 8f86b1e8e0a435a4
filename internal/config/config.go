// Package config assembles the agent's settings from defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/terminator-agent/internal/activation"
	"github.com/mj1618/terminator-agent/internal/catalog"
	"github.com/mj1618/terminator-agent/internal/platform"
	"github.com/mj1618/terminator-agent/internal/typing"
)

// Config is read once at startup and passed by value afterwards.
type Config struct {
	Addr          string `yaml:"addr"            env:"TERMINATOR_ADDR"`
	LogFile       string `yaml:"log_file"        env:"TERMINATOR_LOG_FILE"`
	DesktopUseURL string `yaml:"desktop_use_url" env:"DESKTOP_USE_URL"`
	// AgentURL is where `execute --remote` sends requests.
	AgentURL       string   `yaml:"agent_url"       env:"TERMINATOR_AGENT_URL"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	BrowserAlias string `yaml:"browser_alias"`
	EditorAlias  string `yaml:"editor_alias"`
	// Apps extend or override the built-in alias table; with
	// ReplaceApps they replace it.
	Apps        []catalog.Entry `yaml:"apps"`
	ReplaceApps bool            `yaml:"replace_apps"`

	Activation Activation `yaml:"activation"`
	Typing     Typing     `yaml:"typing"`
}

// Activation timings; see activation.Options.
type Activation struct {
	LaunchDelay       time.Duration `yaml:"launch_delay"`
	HeavyLaunchDelay  time.Duration `yaml:"heavy_launch_delay"`
	ReadyTimeout      time.Duration `yaml:"ready_timeout"`
	HeavyReadyTimeout time.Duration `yaml:"heavy_ready_timeout"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	FallbackKeys      string        `yaml:"fallback_keys"`
	FallbackDelay     time.Duration `yaml:"fallback_delay"`
}

// Typing cadence and auto-save; see typing.Options.
type Typing struct {
	MinKeyDelay     time.Duration `yaml:"min_key_delay"`
	MaxKeyDelay     time.Duration `yaml:"max_key_delay"`
	SaveKeys        string        `yaml:"save_keys"`
	SaveDialogDelay time.Duration `yaml:"save_dialog_delay"`
	SaveFilename    string        `yaml:"save_filename"`
	ConfirmKeys     string        `yaml:"confirm_keys"`
}

// Default returns the stock configuration.
func Default() Config {
	a := activation.DefaultOptions()
	t := typing.DefaultOptions()
	return Config{
		Addr:           "127.0.0.1:8000",
		LogFile:        "terminator_log.txt",
		DesktopUseURL:  "http://127.0.0.1:3000",
		AgentURL:       "http://127.0.0.1:8000",
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		BrowserAlias:   catalog.DefaultBrowserAlias,
		EditorAlias:    catalog.DefaultEditorAlias,
		Activation: Activation{
			LaunchDelay:       a.LaunchDelay,
			HeavyLaunchDelay:  a.HeavyLaunchDelay,
			ReadyTimeout:      a.ReadyTimeout,
			HeavyReadyTimeout: a.HeavyReadyTimeout,
			PollInterval:      a.PollInterval,
			SettleDelay:       a.SettleDelay,
			FallbackKeys:      platform.FormatKeys(a.FallbackKeys),
			FallbackDelay:     a.FallbackDelay,
		},
		Typing: Typing{
			MinKeyDelay:     t.MinKeyDelay,
			MaxKeyDelay:     t.MaxKeyDelay,
			SaveKeys:        platform.FormatKeys(t.SaveKeys),
			SaveDialogDelay: t.SaveDialogDelay,
			SaveFilename:    t.SaveFilename,
			ConfirmKeys:     platform.FormatKeys(t.ConfirmKeys),
		},
	}
}

// Load returns Default overlaid with the YAML file at path (if path is
// non-empty) and then with environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := cfg.merge(data); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	return yaml.Unmarshal(data, c)
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Typing.MinKeyDelay < 0 || c.Typing.MaxKeyDelay < 0 {
		errs = append(errs, errors.New("typing delays must not be negative"))
	}
	if c.Activation.PollInterval <= 0 {
		errs = append(errs, errors.New("activation.poll_interval must be positive"))
	}
	if c.Typing.SaveFilename == "" {
		errs = append(errs, errors.New("typing.save_filename is required"))
	}
	for i, app := range c.Apps {
		if strings.TrimSpace(app.Alias) == "" {
			errs = append(errs, fmt.Errorf("apps[%d]: alias is required", i))
		}
	}
	return errors.Join(errs...)
}

// Entries is the alias table the catalog is built from.
func (c Config) Entries() []catalog.Entry {
	if c.ReplaceApps {
		return append([]catalog.Entry(nil), c.Apps...)
	}
	return append(catalog.DefaultEntries(), c.Apps...)
}

// Catalog builds the immutable alias catalog.
func (c Config) Catalog(opts ...catalog.Option) *catalog.Catalog {
	return catalog.New(c.Entries(), c.BrowserAlias, c.EditorAlias, opts...)
}

// ActivationOptions converts the activation section.
func (c Config) ActivationOptions() activation.Options {
	a := c.Activation
	return activation.Options{
		LaunchDelay:       a.LaunchDelay,
		HeavyLaunchDelay:  a.HeavyLaunchDelay,
		ReadyTimeout:      a.ReadyTimeout,
		HeavyReadyTimeout: a.HeavyReadyTimeout,
		PollInterval:      a.PollInterval,
		SettleDelay:       a.SettleDelay,
		FallbackKeys:      platform.ParseKeys(a.FallbackKeys),
		FallbackDelay:     a.FallbackDelay,
	}
}

// TypingOptions converts the typing section.
func (c Config) TypingOptions() typing.Options {
	t := c.Typing
	return typing.Options{
		MinKeyDelay:     t.MinKeyDelay,
		MaxKeyDelay:     t.MaxKeyDelay,
		SaveKeys:        platform.ParseKeys(t.SaveKeys),
		SaveDialogDelay: t.SaveDialogDelay,
		SaveFilename:    t.SaveFilename,
		ConfirmKeys:     platform.ParseKeys(t.ConfirmKeys),
	}
}
