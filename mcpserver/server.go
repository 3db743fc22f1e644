// Package mcpserver exposes the coordinate detector as MCP tools over stdio.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"gridmark/coords"
)

const (
	// ServerName is the name reported to MCP clients
	ServerName = "gridmark"

	// ServerVersion is the version reported to MCP clients
	ServerVersion = "0.1.0"
)

// Server wraps an MCP server with the detection tools registered.
type Server struct {
	srv *server.MCPServer
}

// NewServer registers the tools. palette may be empty for the default
// marker colors.
func NewServer(palette []string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing MCP server",
		"name", ServerName,
		"version", ServerVersion)

	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	tools, err := NewTools(logger, coords.WithPalette(palette), coords.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	tools.Register(srv)

	return &Server{srv: srv}, nil
}

// Run serves requests on stdin/stdout until the client goes away.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}
