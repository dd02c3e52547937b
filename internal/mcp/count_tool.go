package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/docshield/internal/engine"
	"github.com/kfreiman/docshield/internal/redaction"
)

// CountTool reports how many PII spans of each type a text contains,
// without returning the matched values themselves.
type CountTool struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewCountTool creates a new count tool.
func NewCountTool(e *engine.Engine) *CountTool {
	return &CountTool{engine: e, logger: slog.Default()}
}

// WithLogger sets the logger for the tool.
func (t *CountTool) WithLogger(logger *slog.Logger) *CountTool {
	t.logger = logger
	return t
}

// countResult is the count tool's response payload.
type countResult struct {
	Counts   map[string]int `json:"counts"`
	Total    int            `json:"total"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Call implements the MCP tool interface.
func (t *CountTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseTextArgs(request.Params.Arguments)
	if err != nil {
		return errorResult(err), err
	}

	result, err := t.engine.Redact(ctx, args.Text, args.Language)
	if err != nil {
		t.logger.ErrorContext(ctx, "count failed", "error", err)
		return errorResult(err), err
	}

	out := countResult{
		Counts:   redaction.Count(result.Items),
		Total:    len(result.Items),
		Warnings: result.Warnings,
	}
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errorResult(err), err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, nil
}
