package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/terminator-agent/internal/output"
	"github.com/mj1618/terminator-agent/internal/voice"
	"github.com/spf13/cobra"
)

var voiceCmd = &cobra.Command{
	Use:   "voice [file]",
	Short: "Act on a voice assistant's structured output",
	Long: `Read a voice-assistant payload (JSON) from a file or stdin and perform the
action it describes: open an application, open a URL, type text, or search the
web. Opening goes through the desktop-use server first and falls back to the
local agent when the server is unreachable.

Payload:
  {"summary": "...", "structuredData": {"appName": "...", "searchQuery": "..."}}

Examples:
  echo '{"summary":"open notepad","structuredData":{"appName":"notepad"}}' | terminator-agent voice
  terminator-agent voice call.json --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVoice,
}

func init() {
	rootCmd.AddCommand(voiceCmd)
	voiceCmd.Flags().String("desktop-use-url", "", "Desktop-use server (overrides config; \"-\" to use only the local agent)")
	voiceCmd.Flags().Bool("dry-run", false, "Print the planned action without performing it")
}

// voicePlan is the output of --dry-run.
type voicePlan struct {
	Action voice.Action `yaml:"action"           json:"action"`
	Target string       `yaml:"target,omitempty" json:"target,omitempty"`
}

func runVoice(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	p, err := voice.ParseWebhook(raw)
	if err != nil {
		return err
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		action, target, err := voice.Plan(p)
		if err != nil {
			return err
		}
		return output.Print(voicePlan{Action: action, Target: target})
	}

	rt, err := newRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	url, _ := cmd.Flags().GetString("desktop-use-url")
	if url == "" {
		url = rt.cfg.DesktopUseURL
	}
	out, err := newDispatcher(url, rt.agent, rt.log).Dispatch(cmd.Context(), p)
	if err != nil {
		return err
	}
	if err := output.Print(out); err != nil {
		return err
	}
	if !out.OK && out.Action != voice.ActionNone {
		return fmt.Errorf("%s could not be executed: %s", out.Action, out.Detail)
	}
	return nil
}

// readInput reads the file named by args[0], or stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading payload from stdin: %w", err)
	}
	return data, nil
}
