package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aizetachan/ui-forge-sub001/pkg/mcplog"
)

// loggingMiddleware records every tool call to the call log. NewServer only
// installs it when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := time.Since(start).Milliseconds()

			rb := mcplog.ResponseBytes(result)
			var errStr *string
			if err != nil {
				msg := err.Error()
				errStr = &msg
			}

			entry := mcplog.LogEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    elapsed,
				ResponseBytes: rb,
				TokensEst:     rb / 4,
				Outcome:       mcplog.ResultOutcome(result),
				IsError:       result != nil && result.IsError,
				Error:         errStr,
			}
			if werr := s.logger.Write(entry); werr != nil {
				s.log.Debug("failed to write call log", "tool", req.Params.Name, "error", werr)
			}

			return result, err
		}
	}
}
