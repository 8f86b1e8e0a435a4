package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/terminator-agent/internal/agent"
	"github.com/mj1618/terminator-agent/internal/catalog"
	"github.com/mj1618/terminator-agent/internal/platform"
	"github.com/mj1618/terminator-agent/internal/version"
	"github.com/mj1618/terminator-agent/internal/voice"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// toolBackend is what the MCP tools call into.
type toolBackend interface {
	Execute(ctx context.Context, req agent.Request) (agent.Result, error)
}

type voiceBackend interface {
	Dispatch(ctx context.Context, p voice.Payload) (voice.Outcome, error)
}

// mcpServer exposes the agent as MCP tools.
type mcpServer struct {
	exec    toolBackend
	voice   voiceBackend
	catalog *catalog.Catalog
	windows platform.WindowManager // nil without an input backend
	// windowsMu serializes window enumeration against the provider.
	windowsMu sync.Mutex
	log       *slog.Logger
	mcp       *mcpserver.MCPServer
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the agent as tools",
	Long: `Start a Model Context Protocol (MCP) server exposing execute, voice,
aliases and windows as tools.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport

Examples:
  terminator-agent mcp
  terminator-agent mcp --transport streamable-http --port 8081`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	mcpCmd.Flags().Int("port", 8081, "HTTP port for streamable-http transport")
	mcpCmd.Flags().String("desktop-use-url", "", "Desktop-use server for the voice tool (\"-\" for local only)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cfg := MCPConfig{Transport: transport, Port: port}

	// stdout carries the protocol on stdio; logs go to stderr.
	rt, err := newRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	url, _ := cmd.Flags().GetString("desktop-use-url")
	if url == "" {
		url = rt.cfg.DesktopUseURL
	}

	var windows platform.WindowManager
	if rt.provider != nil {
		windows = rt.provider.WindowManager
	}
	srv := newMCPServer(rt.agent, newDispatcher(url, rt.agent, rt.log), rt.catalog, windows, rt.log)
	return srv.serve(cfg)
}

// newMCPServer creates and configures an MCP server with all agent tools.
func newMCPServer(exec toolBackend, v voiceBackend, cat *catalog.Catalog, windows platform.WindowManager, log *slog.Logger) *mcpServer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &mcpServer{
		exec:    exec,
		voice:   v,
		catalog: cat,
		windows: windows,
		log:     log,
	}
	s.mcp = mcpserver.NewMCPServer("terminator-agent", version.Version)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	s.log.Info("Starting MCP server", "transport", cfg.Transport)
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("execute",
			mcp.WithDescription("Open an application by alias or executable and optionally type text into it. A browser alias with an http(s) URL opens the URL."),
			mcp.WithString("app", mcp.Required(), mcp.Description("Application alias (e.g. 'notepad', 'chrome') or executable path")),
			mcp.WithString("action", mcp.Description("Text to type after the app opens, or a URL for the browser")),
		),
		s.handleExecute,
	)

	s.mcp.AddTool(
		mcp.NewTool("voice",
			mcp.WithDescription("Act on voice-assistant structured data: open an app, open a URL, type text, or search the web"),
			mcp.WithString("summary", mcp.Description("Call summary; mentioning 'type' or 'write' selects typing")),
			mcp.WithString("app_name", mcp.Description("Application to open")),
			mcp.WithString("search_query", mcp.Description("URL, search terms, or text to type")),
		),
		s.handleVoice,
	)

	s.mcp.AddTool(
		mcp.NewTool("aliases",
			mcp.WithDescription("List known application aliases with their executable paths and window titles"),
		),
		s.handleAliases,
	)

	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List open windows"),
			mcp.WithString("app", mcp.Description("Filter by application name")),
			mcp.WithString("title", mcp.Description("Filter by title substring")),
		),
		s.handleWindows,
	)
}

// toText serializes v to YAML for an MCP response.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *mcpServer) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := agent.Request{
		App:    request.GetString("app", ""),
		Action: request.GetString("action", ""),
	}
	res, err := s.exec.Execute(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(toText(map[string]string{
			"kind":   string(agent.KindOf(err)),
			"detail": err.Error(),
		})), nil
	}
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *mcpServer) handleVoice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := voice.Payload{
		Summary: request.GetString("summary", ""),
		StructuredData: &voice.StructuredData{
			AppName:     request.GetString("app_name", ""),
			SearchQuery: request.GetString("search_query", ""),
		},
	}
	out, err := s.voice.Dispatch(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !out.OK && out.Action != voice.ActionNone {
		return mcp.NewToolResultError(toText(out)), nil
	}
	return mcp.NewToolResultText(toText(out)), nil
}

func (s *mcpServer) handleAliases(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(s.catalog.Entries())), nil
}

func (s *mcpServer) handleWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.windows == nil {
		return mcp.NewToolResultError(platform.ErrUnsupported.Error()), nil
	}

	s.windowsMu.Lock()
	defer s.windowsMu.Unlock()

	windows, err := s.windows.ListWindows(platform.ListOptions{App: request.GetString("app", "")})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(filterByTitle(windows, request.GetString("title", "")))), nil
}
