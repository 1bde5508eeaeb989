package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// ServerName identifies the MCP server to clients.
const ServerName = "gamedevs-tools"

// NewMCPServer registers every tool of r on a new MCP server.
func NewMCPServer(r *Registry, version string, log logrus.FieldLogger) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, t := range r.All() {
		schema, err := json.Marshal(t.InputSchema())
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", t.Name(), err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), handler(t, log))
	}
	return s, nil
}

func handler(t Tool, log logrus.FieldLogger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		entry := log.WithField("tool", t.Name())
		entry.WithField("args", string(args)).Debug("tool call")

		out, err := t.Run(ctx, args)
		if err != nil {
			entry.WithError(err).Warn("tool failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// ServeStdio serves the tools over stdin and stdout until the client
// disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
