// Package mcpserver exposes the Kaneki commands as MCP (Model Context
// Protocol) tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/kanekilink/internal/commands"
	"github.com/starford/kanekilink/internal/settings"
)

// Runner runs the editor commands against a given note; an empty path
// means the active note.
type Runner interface {
	SendNote(ctx context.Context, path string) error
	OpenNote(ctx context.Context, path string) error
}

// Workspace reports the active document.
type Workspace interface {
	ActiveFile() (string, error)
}

// Panel is the settings tab.
type Panel interface {
	Current() settings.Settings
	SetRootPath(ctx context.Context, value string) error
}

// Server wraps the MCP server with the Kaneki tools.
type Server struct {
	mcp    *server.MCPServer
	runner Runner
	ws     Workspace
	panel  Panel
}

// New creates a new MCP server with all tools registered.
func New(runner Runner, ws Workspace, panel Panel) *Server {
	s := &Server{runner: runner, ws: ws, panel: panel}

	s.mcp = server.NewMCPServer(
		"kanekilink",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("send_to_kaneki",
		mcp.WithDescription("Send a note to Kaneki for publishing. The note needs slug, title and excerpt in its frontmatter."),
		mcp.WithString("path", mcp.Description("Vault-relative note path; defaults to the active note")),
	), s.sendToKaneki)

	s.mcp.AddTool(mcp.NewTool("open_in_kaneki",
		mcp.WithDescription("Open the published version of a note via Kaneki. The note needs a slug in its frontmatter."),
		mcp.WithString("path", mcp.Description("Vault-relative note path; defaults to the active note")),
	), s.openInKaneki)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Return the current extension settings."),
	), s.getSettings)

	s.mcp.AddTool(mcp.NewTool("set_root_path",
		mcp.WithDescription("Set the absolute vault root path prepended to note paths sent to Kaneki."),
		mcp.WithString("root_path", mcp.Required(), mcp.Description("Absolute path, usually ending with a separator")),
	), s.setRootPath)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) sendToKaneki(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, commands.SendID, s.runner.SendNote)
}

func (s *Server) openInKaneki(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, req, commands.OpenID, s.runner.OpenNote)
}

// run passes the requested path straight to the runner: stdio tool calls
// are served concurrently, so the shared active note must not carry it.
func (s *Server) run(ctx context.Context, req mcp.CallToolRequest, id string, fn func(context.Context, string) error) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if err := fn(ctx, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if path == "" {
		path, _ = s.ws.ActiveFile()
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: ok (%s)", id, path)), nil
}

func (s *Server) getSettings(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.panel.Current(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) setRootPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := req.RequireString("root_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.panel.SetRootPath(ctx, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("root path set to %q", value)), nil
}
