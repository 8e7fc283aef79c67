// Package mcp implements a Model Context Protocol (MCP) server.
//
// The MCP server exposes the assistant's question-answering capability
// via the Model Context Protocol, enabling integration with Genkit CLI,
// Cursor, Claude Code, and other MCP clients. External LLM agents can
// query the configured Coda document through a standardized protocol
// interface instead of the REST API.
//
// # Supported Tools
//
//   - ask_document: Answer a natural-language question about the
//     configured Coda document using Gemini
//   - refresh_cache: Discard the cached workspace snapshot and rebuild
//     it from the Coda API
//   - data_summary: Report page, table, and row counts from the
//     cached-or-built snapshot
//
// # Tool Handler Pattern
//
// Tool handlers follow Go's net/http.Handler pattern:
//
//  1. Define input schema struct with JSON tags and descriptions
//  2. Infer JSON schema using jsonschema-go
//  3. Create mcp.Tool with name, description, and schema
//  4. Register handler using mcp.AddTool
//
// # Error Handling
//
// The server distinguishes between two types of errors:
//
//   - Protocol errors: unknown tools or malformed requests, surfaced
//     as JSON-RPC errors by the SDK
//
//   - Domain faults: upstream Coda failures or an unresolvable
//     document, returned as successful responses with IsError=true so
//     agent clients can render them and recover
//
// # Thread Safety
//
// The server is safe for concurrent use. Transport and message
// handling are managed by the MCP SDK; the underlying snapshot cache
// collapses concurrent builds.
package mcp
