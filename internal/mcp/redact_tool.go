package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/docshield/internal/engine"
)

// RedactTool exposes span redaction as an MCP tool.
type RedactTool struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewRedactTool creates a new redact tool.
func NewRedactTool(e *engine.Engine) *RedactTool {
	return &RedactTool{engine: e, logger: slog.Default()}
}

// WithLogger sets the logger for the tool.
func (t *RedactTool) WithLogger(logger *slog.Logger) *RedactTool {
	t.logger = logger
	return t
}

// Call implements the MCP tool interface.
func (t *RedactTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, types, err := parseTextArgs(request.Params.Arguments)
	if err != nil {
		return errorResult(err), err
	}

	result, err := t.engine.Redact(ctx, args.Text, args.Language, types...)
	if err != nil {
		t.logger.ErrorContext(ctx, "redaction failed", "error", err)
		return errorResult(err), err
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResult(err), err
	}

	t.logger.InfoContext(ctx, "redact_text completed",
		"language", args.Language,
		"items", len(result.Items),
		"warnings", len(result.Warnings),
	)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, nil
}
