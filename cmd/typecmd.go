package cmd

import (
	"fmt"

	"github.com/mj1618/terminator-agent/internal/output"
	"github.com/mj1618/terminator-agent/internal/platform"
	"github.com/mj1618/terminator-agent/internal/typing"
	"github.com/spf13/cobra"
)

// TypeResult is the output of a successful type command.
type TypeResult struct {
	OK      bool   `yaml:"ok"                 json:"ok"`
	Action  string `yaml:"action"             json:"action"`
	Text    string `yaml:"text,omitempty"     json:"text,omitempty"`
	Key     string `yaml:"key,omitempty"      json:"key,omitempty"`
	Typed   int    `yaml:"typed,omitempty"    json:"typed,omitempty"`
	SavedAs string `yaml:"saved_as,omitempty" json:"saved_as,omitempty"`
}

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text or press key combinations into the focused window",
	Long: `Type text into the focused window at a human-like cadence, or press a key
combination. Text can be passed as a positional argument or via --text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type (alternative to positional arg)")
	typeCmd.Flags().String("key", "", "Key combination (e.g. \"ctrl+s\", \"alt+tab\", \"enter\")")
	typeCmd.Flags().String("focus", "", "Focus this alias's window before typing")
	typeCmd.Flags().Bool("save", false, "Run the editor auto-save sequence after typing")
}

func runType(cmd *cobra.Command, args []string) error {
	text := textArg(cmd, args, 0, "text")
	key, _ := cmd.Flags().GetString("key")
	focusAlias, _ := cmd.Flags().GetString("focus")
	save, _ := cmd.Flags().GetBool("save")

	if text == "" && key == "" {
		return errNoText("text or --key")
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

	if focusAlias != "" {
		if err := provider.WindowManager.FocusWindow(focusOptions(rt.catalog, focusAlias, "", 0)); err != nil {
			return fmt.Errorf("focus %s: %w", focusAlias, err)
		}
	}

	if key != "" {
		if err := provider.Inputter.KeyCombo(platform.ParseKeys(key)); err != nil {
			return err
		}
		return output.Print(TypeResult{OK: true, Action: "key", Key: key})
	}

	synth := typing.New(provider.Inputter, rt.cfg.TypingOptions())
	n, err := synth.Type(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("typed %d characters before failing: %w", n, err)
	}
	result := TypeResult{OK: true, Action: "type", Text: text, Typed: n}
	if save {
		name, err := synth.AutoSave(cmd.Context())
		if err != nil {
			return fmt.Errorf("auto-save: %w", err)
		}
		result.SavedAs = name
	}
	return output.Print(result)
}
