package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every request and response at debug level.
// Tool calls are additionally logged at info with their duration.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}
			debug := logger.Enabled(ctx, slog.LevelDebug)

			sessionID := requestSessionID(req)
			if debug {
				logger.Debug("mcp traffic", "direction", direction, "stage", "request", "method", method,
					"session_id", sessionID, "params", formatPayload(safeParams(req)))
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			if method == "tools/call" && direction == "inbound" {
				logger.Info("tool call", "tool", toolName(req), "elapsed", elapsed, "error", err)
			}
			if debug && !strings.HasPrefix(method, "notifications/") {
				logger.Debug("mcp traffic", "direction", direction, "stage", "response", "method", method,
					"session_id", sessionID, "elapsed", elapsed, "result", formatPayload(result), "error", err)
			}

			return result, err
		}
	}
}

func toolName(req sdkmcp.Request) string {
	if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
		return call.Params.Name
	}
	return ""
}

// requestSessionID prefers the HTTP Mcp-Session-Id header and falls back to
// the SDK session. Notifications can arrive without a session attached.
func requestSessionID(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if id := extra.Header.Get("Mcp-Session-Id"); id != "" {
			return id
		}
	}
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return string(data[:maxLoggedPayload]) + "...(truncated)"
	}
	return string(data)
}
