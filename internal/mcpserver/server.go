// Package mcpserver exposes the layer policy as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/adrianpk/layerguard/internal/logger"
	"github.com/adrianpk/layerguard/internal/policy"
)

var log = logger.New("mcp")

// Server wraps an MCP server with the check_action and list_layers tools.
type Server struct {
	policy    *policy.Policy
	mcpServer *server.MCPServer
}

// New creates the MCP server for p.
func New(p *policy.Policy, version string) *Server {
	s := &Server{policy: p}

	s.mcpServer = server.NewMCPServer(
		"layerguard",
		version,
		server.WithToolCapabilities(false),
	)

	checkTool := mcp.NewTool("check_action",
		mcp.WithDescription(`Check whether a file write or shell command respects the layered architecture.

Args:
  - path (string, optional): File about to be written
  - content (string, optional): Text about to be written to path
  - command (string, optional): Shell command about to run

Returns: JSON decision with allow, reasons and display_message.`),
		mcp.WithString("path", mcp.Description("File about to be written")),
		mcp.WithString("content", mcp.Description("Text about to be written to path")),
		mcp.WithString("command", mcp.Description("Shell command about to run")),
		mcp.WithString("cwd", mcp.Description("Project directory that absolute paths are relative to")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:           "Check Action",
			ReadOnlyHint:    boolPtr(true),
			DestructiveHint: boolPtr(false),
			IdempotentHint:  boolPtr(true),
			OpenWorldHint:   boolPtr(false),
		}),
	)
	s.mcpServer.AddTool(checkTool, s.handleCheckAction)

	layersTool := mcp.NewTool("list_layers",
		mcp.WithDescription("List every filename suffix and the layer directory it must live under."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:           "List Layers",
			ReadOnlyHint:    boolPtr(true),
			DestructiveHint: boolPtr(false),
			IdempotentHint:  boolPtr(true),
			OpenWorldHint:   boolPtr(false),
		}),
	)
	s.mcpServer.AddTool(layersTool, s.handleListLayers)

	return s
}

func boolPtr(b bool) *bool {
	return &b
}

// ServeStdio serves requests on stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	log.Info("serving MCP on stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleCheckAction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var action policy.ActionDescription
	if v, ok := req.Params.Arguments["path"].(string); ok {
		action.Path = v
	}
	if v, ok := req.Params.Arguments["content"].(string); ok {
		action.Content = &v
	}
	if v, ok := req.Params.Arguments["command"].(string); ok {
		action.Command = v
	}
	if v, ok := req.Params.Arguments["cwd"].(string); ok {
		action.Cwd = v
	}
	if action.Path == "" && action.Command == "" {
		return mcp.NewToolResultError("path or command is required"), nil
	}

	d := s.policy.Evaluate(action)
	log.Debug("check_action path=%q allow=%v", action.Path, d.Allow)

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode decision: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListLayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t := s.policy.Table

	var sb strings.Builder
	fmt.Fprintf(&sb, "Files ending in %s under %s/ must be named <name><suffix> and placed under the layer directory.\n\n",
		t.Extension, t.SourceRoot)
	for _, e := range t.Entries() {
		fmt.Fprintf(&sb, "%s -> %s/\n", e.Suffix, e.Layer)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
