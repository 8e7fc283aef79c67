package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sdvincy/coda-assistant/internal/snapshot"
)

// Assistant is the slice of the application the MCP tools run against.
// *app.App satisfies it.
type Assistant interface {
	Answer(ctx context.Context, question string) (string, error)
	Snapshot(ctx context.Context) (*snapshot.Result, error)
	RefreshSnapshot(ctx context.Context) (*snapshot.Result, error)
}

// Config holds MCP server configuration.
type Config struct {
	Name      string
	Version   string
	DocName   string
	Assistant Assistant
}

// Server exposes the assistant over the Model Context Protocol.
type Server struct {
	mcpServer *mcp.Server
	assistant Assistant
	docName   string
}

// NewServer creates an MCP server with the assistant tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Assistant == nil {
		return nil, fmt.Errorf("assistant is required")
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		assistant: cfg.Assistant,
		docName:   cfg.DocName,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}
