// Package cmd provides CLI commands for the Coda assistant.
//
// Commands:
//   - serve: HTTP API server answering questions about the Coda document
//   - ask: one-shot question from the command line
//   - mcp: Model Context Protocol server for IDE integration
//
// Signal handling and graceful shutdown are implemented
// for the long-running commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sdvincy/coda-assistant/internal/log"
)

// Execute is the main entry point for the coda-assistant CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "ask":
		return runAsk()
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Coda AI Assistant - ask questions about your Coda doc")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  coda-assistant serve [addr]       Start HTTP API server (default: :8000)")
	fmt.Println("  coda-assistant ask \"<question>\"   Ask a single question and exit")
	fmt.Println("  coda-assistant mcp                Start MCP server (for Claude Desktop/Cursor)")
	fmt.Println("  coda-assistant --version          Show version information")
	fmt.Println("  coda-assistant --help             Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CODA_API_KEY       Required: Coda REST API token")
	fmt.Println("  GEMINI_API_KEY     Required: Gemini API key")
	fmt.Println("  CODA_DOC_NAME      Optional: target document name")
	fmt.Println("  PORT               Optional: HTTP listen port (default: 8000)")
	fmt.Println("  DD_API_KEY         Optional: enable Datadog APM tracing")
	fmt.Println("  DEBUG              Optional: enable debug logging")
	fmt.Println()
	fmt.Println("Learn more: https://github.com/sdvincy/coda-assistant")
}
