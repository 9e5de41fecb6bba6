package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/aizetachan/ui-forge-sub001/pkg/forge"
	"github.com/aizetachan/ui-forge-sub001/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server exposes repository parsing and source patching as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	forge     *forge.Forge
	logger    *mcplog.Logger // may be nil when call logging is disabled
	log       *slog.Logger
}

// NewServer creates an MCP server backed by f. Tool calls are recorded to
// callLog when it is non-nil.
func NewServer(f *forge.Forge, callLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{forge: f, logger: callLog, log: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("uiforge", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: parseRepositoryTool(), Handler: s.handleParseRepository},
		server.ServerTool{Tool: getComponentStylesTool(), Handler: s.handleGetComponentStyles},
		server.ServerTool{Tool: readCSSPropertyTool(), Handler: s.handleReadCSSProperty},
		server.ServerTool{Tool: writeCSSChangeTool(), Handler: s.handleWriteCSSChange},
		server.ServerTool{Tool: writePropDefaultTool(), Handler: s.handleWritePropDefault},
		server.ServerTool{Tool: writeTokenValueTool(), Handler: s.handleWriteTokenValue},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp server listening on stdio", "version", serverVersion)
	return server.ServeStdio(s.mcpServer)
}
