package cmd

import (
	"fmt"

	"github.com/mj1618/terminator-agent/internal/agent"
	"github.com/mj1618/terminator-agent/internal/agentclient"
	"github.com/mj1618/terminator-agent/internal/output"
	"github.com/spf13/cobra"
)

var executeCmd = &cobra.Command{
	Use:   "execute <app> [action]",
	Short: "Open an application and optionally type into it",
	Long: `Run the execute pipeline once: resolve the alias, launch the application,
focus its window and type the action text. When the app is the browser alias
and the action is an http(s) URL, the URL is opened instead of typed.

With --remote the request is sent to a running agent instead.

Examples:
  terminator-agent execute notepad "hello world"
  terminator-agent execute chrome https://example.com
  terminator-agent execute calc --remote`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExecute,
}

func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().Bool("remote", false, "Send the request to a running agent")
	executeCmd.Flags().String("agent-url", "", "Agent base URL for --remote (overrides config agent_url)")
}

func runExecute(cmd *cobra.Command, args []string) error {
	req := agent.Request{App: args[0], Action: textArg(cmd, args, 1, "")}
	remote, _ := cmd.Flags().GetBool("remote")

	rt, err := newRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	var res agent.Result
	if remote {
		url, _ := cmd.Flags().GetString("agent-url")
		if url == "" {
			url = rt.cfg.AgentURL
		}
		res, err = agentclient.New(url, nil).Execute(cmd.Context(), req)
	} else {
		res, err = rt.agent.Execute(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", agent.KindOf(err), err)
	}
	return output.Print(res)
}
