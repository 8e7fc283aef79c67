package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sdvincy/coda-assistant/internal/snapshot"
)

// AskDocumentInput is the input schema for the ask_document tool.
type AskDocumentInput struct {
	Question string `json:"question" jsonschema:"The natural-language question to answer from the document data"`
}

// RefreshCacheInput is the input schema for the refresh_cache tool.
// The tool takes no arguments.
type RefreshCacheInput struct{}

// DataSummaryInput is the input schema for the data_summary tool.
// The tool takes no arguments.
type DataSummaryInput struct{}

// registerTools registers the assistant tools to the MCP server.
// Tools: ask_document, refresh_cache, data_summary
func (s *Server) registerTools() error {
	askSchema, err := jsonschema.For[AskDocumentInput](nil)
	if err != nil {
		return fmt.Errorf("schema for ask_document: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "ask_document",
		Description: "Answer a natural-language question about the configured Coda document. " +
			"The document's pages and tables are aggregated and analyzed by Gemini.",
		InputSchema: askSchema,
	}, s.AskDocument)

	refreshSchema, err := jsonschema.For[RefreshCacheInput](nil)
	if err != nil {
		return fmt.Errorf("schema for refresh_cache: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "refresh_cache",
		Description: "Discard the cached snapshot of the Coda document and rebuild it, " +
			"so subsequent questions see fresh data.",
		InputSchema: refreshSchema,
	}, s.RefreshCache)

	summarySchema, err := jsonschema.For[DataSummaryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for data_summary: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "data_summary",
		Description: "Report page, table, and row counts of the configured Coda document " +
			"without asking the model anything.",
		InputSchema: summarySchema,
	}, s.DataSummary)

	return nil
}

// AskDocument handles the ask_document MCP tool call.
func (s *Server) AskDocument(ctx context.Context, req *mcp.CallToolRequest, input AskDocumentInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Question) == "" {
		return errorResult("question is required"), nil, nil
	}

	answer, err := s.assistant.Answer(ctx, input.Question)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	return textResult(answer), nil, nil
}

// RefreshCache handles the refresh_cache MCP tool call.
func (s *Server) RefreshCache(ctx context.Context, req *mcp.CallToolRequest, input RefreshCacheInput) (*mcp.CallToolResult, any, error) {
	snap, err := s.assistant.RefreshSnapshot(ctx)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	tables, rows := snapshot.Totals(snap.Pages)
	return dataToMCP(map[string]any{
		"message":      "Cache refreshed successfully",
		"status":       "success",
		"total_pages":  len(snap.Pages),
		"total_tables": tables,
		"total_rows":   rows,
	}), nil, nil
}

// DataSummary handles the data_summary MCP tool call. The JSON shape
// matches the REST GET /data-summary endpoint so clients of either
// surface see the same contract.
func (s *Server) DataSummary(ctx context.Context, req *mcp.CallToolRequest, input DataSummaryInput) (*mcp.CallToolResult, any, error) {
	snap, err := s.assistant.Snapshot(ctx)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	pages := make([]map[string]any, len(snap.Pages))
	for i, p := range snap.Pages {
		tables := make([]map[string]any, len(p.Tables))
		for j, t := range p.Tables {
			tables[j] = map[string]any{
				"table_name": t.Name,
				"row_count":  len(t.Rows),
			}
		}
		pages[i] = map[string]any{
			"page_name": p.Name,
			"tables":    tables,
		}
	}

	totalTables, totalRows := snapshot.Totals(snap.Pages)
	return dataToMCP(map[string]any{
		"document": s.docName,
		"summary": map[string]any{
			"total_pages":  len(snap.Pages),
			"total_tables": totalTables,
			"total_rows":   totalRows,
		},
		"pages": pages,
	}), nil, nil
}
