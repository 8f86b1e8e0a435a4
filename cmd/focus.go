package cmd

import (
	"fmt"

	"github.com/mj1618/terminator-agent/internal/output"
	"github.com/mj1618/terminator-agent/internal/platform"
	"github.com/spf13/cobra"
)

// FocusResult is the output of a successful focus.
type FocusResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Alias  string `yaml:"alias,omitempty"  json:"alias,omitempty"`
	Window string `yaml:"window,omitempty" json:"window,omitempty"`
	PID    int    `yaml:"pid,omitempty"    json:"pid,omitempty"`
}

var focusCmd = &cobra.Command{
	Use:   "focus [alias]",
	Short: "Bring an application's window to the foreground",
	Long: `Focus a window by alias (using its mapped window title), by title
substring, or by PID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().String("window", "", "Focus window by title substring")
	focusCmd.Flags().Int("pid", 0, "Focus application by PID")
}

func runFocus(cmd *cobra.Command, args []string) error {
	window, _ := cmd.Flags().GetString("window")
	pid, _ := cmd.Flags().GetInt("pid")
	alias := textArg(cmd, args, 0, "")

	if alias == "" && window == "" && pid == 0 {
		return fmt.Errorf("specify an alias, --window, or --pid")
	}

	rt, err := newRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	provider, err := requireProvider(rt)
	if err != nil {
		return err
	}

	opts := focusOptions(rt.catalog, alias, window, pid)
	if err := provider.WindowManager.FocusWindow(opts); err != nil {
		return err
	}
	return output.Print(FocusResult{
		OK:     true,
		Action: "focus",
		Alias:  alias,
		Window: opts.Window,
		PID:    opts.PID,
	})
}

type titleLookup interface {
	WindowTitle(alias string) (string, bool)
}

// focusOptions targets an explicit window or PID first, then the alias's
// mapped title, then the alias as a process name.
func focusOptions(cat titleLookup, alias, window string, pid int) platform.FocusOptions {
	switch {
	case window != "" || pid != 0:
		return platform.FocusOptions{Window: window, PID: pid}
	default:
		if title, ok := cat.WindowTitle(alias); ok {
			return platform.FocusOptions{Window: title}
		}
		return platform.FocusOptions{App: alias}
	}
}
