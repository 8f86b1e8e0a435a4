package cmd

import (
	"github.com/mj1618/terminator-agent/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP agent",
	Long: `Start the HTTP agent.

Routes:
  GET  /         health check
  POST /execute  {"app": "...", "action": "..."|null}
  POST /vapi     voice-assistant webhook (structured data or end-of-call report)

Examples:
  terminator-agent serve
  terminator-agent serve --addr 0.0.0.0:8000 --desktop-use-url -`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config addr, default 127.0.0.1:8000)")
	serveCmd.Flags().String("desktop-use-url", "", "Desktop-use server for voice actions (\"-\" to use only the local agent)")
	serveCmd.Flags().Bool("no-voice", false, "Do not serve the /vapi webhook")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer rt.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = rt.cfg.Addr
	}
	remoteURL, _ := cmd.Flags().GetString("desktop-use-url")
	if remoteURL == "" {
		remoteURL = rt.cfg.DesktopUseURL
	}

	var dispatcher server.Dispatcher
	if noVoice, _ := cmd.Flags().GetBool("no-voice"); !noVoice {
		dispatcher = newDispatcher(remoteURL, rt.agent, rt.log)
	}

	srv := server.New(rt.agent, dispatcher, server.Options{
		AllowedOrigins: rt.cfg.AllowedOrigins,
		Logger:         rt.log,
	})
	return srv.Run(cmd.Context(), addr)
}
