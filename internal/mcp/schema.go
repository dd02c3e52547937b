package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ServerInstructions contains the MCP server instructions for clients.
const ServerInstructions = `DocShield Server - PII Detection and Redaction

This server detects and redacts personally-identifiable spans (ID documents,
phone numbers, email addresses, person names, locations) in free-form text.
Supported languages: "es" (default) and "en"; any other code falls back to
the default language with a warning.

## Transport

This server uses streamable HTTP transport only. Connect via:
- POST /mcp  - Streamable HTTP transport

Stdio transport is not supported.

## Tools

### analyze_text
Detect PII spans without modifying the text.
Parameters:
- text: The text to analyze
- language: Optional language code (default "es")
- entity_types: Optional list restricting the entity types searched for

Returns the ordered, non-overlapping span list with offsets, scores, and
the validation rules applied to each span.

### redact_text
Replace every detected PII span with its per-type label.
Parameters:
- text: The text to redact
- language: Optional language code (default "es")
- entity_types: Optional list restricting the entity types redacted

Returns the redacted text plus an audit item per replacement. Text outside
replaced spans is preserved byte-for-byte.

### count_entities
Count PII occurrences per entity type without returning the values.
Parameters:
- text: The text to scan
- language: Optional language code (default "es")
`

// entityTypeNames enumerates the accepted entity_types values.
var entityTypeNames = []string{
	"PERSON", "PHONE_NUMBER", "EMAIL_ADDRESS", "ID_DOCUMENT", "LOCATION",
}

// ToolDefinitions contains the MCP tool definitions.
var ToolDefinitions = map[string]*mcp.Tool{
	"analyze_text": {
		Name:        "analyze_text",
		Description: "Detect PII spans in text. Returns an ordered, non-overlapping span list with entity types, offsets, confidence scores, and applied validation rules.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to analyze",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language code ('es' or 'en'); unsupported codes fall back to the default",
					"default":     "es",
				},
				"entity_types": map[string]interface{}{
					"type":        "array",
					"description": "Optional restriction of the entity types searched for",
					"items": map[string]interface{}{
						"type": "string",
						"enum": entityTypeNames,
					},
				},
			},
			"required": []string{"text"},
		},
	},
	"redact_text": {
		Name:        "redact_text",
		Description: "Replace every detected PII span with its per-type label. Returns the redacted text and an audit item per replacement; text outside spans is preserved byte-for-byte.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to redact",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language code ('es' or 'en'); unsupported codes fall back to the default",
					"default":     "es",
				},
				"entity_types": map[string]interface{}{
					"type":        "array",
					"description": "Optional restriction of the entity types redacted",
					"items": map[string]interface{}{
						"type": "string",
						"enum": entityTypeNames,
					},
				},
			},
			"required": []string{"text"},
		},
	},
	"count_entities": {
		Name:        "count_entities",
		Description: "Count PII occurrences per entity type without returning the matched values. Useful as a cheap leak check before forwarding a document.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to scan",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language code ('es' or 'en'); unsupported codes fall back to the default",
					"default":     "es",
				},
			},
			"required": []string{"text"},
		},
	},
}
