package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/docshield/internal/engine"
	"github.com/kfreiman/docshield/internal/pii"
)

// AnalyzeTool exposes the span analysis pipeline as an MCP tool.
type AnalyzeTool struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewAnalyzeTool creates a new analyze tool.
func NewAnalyzeTool(e *engine.Engine) *AnalyzeTool {
	return &AnalyzeTool{engine: e, logger: slog.Default()}
}

// WithLogger sets the logger for the tool.
func (t *AnalyzeTool) WithLogger(logger *slog.Logger) *AnalyzeTool {
	t.logger = logger
	return t
}

// textArgs is the shared argument shape of the text tools.
type textArgs struct {
	Text        string   `json:"text"`
	Language    string   `json:"language"`
	EntityTypes []string `json:"entity_types"`
}

// parseTextArgs decodes and validates tool arguments.
func parseTextArgs(raw json.RawMessage) (textArgs, []pii.EntityType, error) {
	var args textArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.Text == "" {
		return args, nil, &ValidationError{Field: "text", Reason: "required parameter missing"}
	}
	var types []pii.EntityType
	for _, name := range args.EntityTypes {
		t, err := pii.ParseEntityType(name)
		if err != nil {
			return args, nil, &ValidationError{Field: "entity_types", Value: name, Reason: "unknown entity type"}
		}
		types = append(types, t)
	}
	return args, types, nil
}

// Call implements the MCP tool interface.
func (t *AnalyzeTool) Call(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, types, err := parseTextArgs(request.Params.Arguments)
	if err != nil {
		return errorResult(err), err
	}

	result, err := t.engine.Analyze(ctx, args.Text, args.Language, types...)
	if err != nil {
		t.logger.ErrorContext(ctx, "analysis failed", "error", err)
		return errorResult(err), err
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResult(err), err
	}

	t.logger.InfoContext(ctx, "analyze_text completed",
		"language", args.Language,
		"spans", len(result.Spans),
		"warnings", len(result.Warnings),
	)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(payload)},
		},
	}, nil
}

// errorResult wraps an error into a tool result for the client.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
	}
}
