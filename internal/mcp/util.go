package mcp

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP error detail policy: tool faults carry only the error message the
// domain layer already formats for callers. Never expose stack traces,
// file paths, environment variables, or API tokens.

// textResult wraps plain text in a successful MCP result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps a fault message in an MCP error result. Domain
// faults come back this way so agent clients can render them; protocol
// errors are reserved for SDK-level failures.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// dataToMCP converts arbitrary data to MCP text content via JSON
// marshaling. All structured data becomes JSON; clients parse it.
func dataToMCP(data any) *mcp.CallToolResult {
	if data == nil {
		return textResult("")
	}

	b, err := json.Marshal(data)
	if err != nil {
		return errorResult("marshal error")
	}
	return textResult(string(b))
}
