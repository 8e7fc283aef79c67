//go:build e2e
// +build e2e

// End-to-end tests for the answer engine against the real Gemini API.
//
// Run with: go test -tags=e2e ./internal/answer -v -run=E2E
//
// Requirements:
//   - GEMINI_API_KEY environment variable must be set
//   - Tests will make real LLM API calls (costs money)
package answer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sdvincy/coda-assistant/internal/testutil"
)

func TestE2EAskAnswersFromSnapshotText(t *testing.T) {
	setup := testutil.SetupGoogleAI(t)

	engine, err := NewEngine(EngineConfig{
		Genkit:      setup.Genkit,
		ModelName:   "googleai/gemini-2.5-flash",
		Temperature: 0.2,
		MaxTokens:   1024,
		Timeout:     90 * time.Second,
		Logger:      setup.Logger,
	})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	contextText := "CODA DOCUMENT DATA:\n\n" +
		"=== PAGE: Inventory ===\n\n" +
		"TABLE: Items\n" +
		"Columns: Name, Qty\n" +
		"1. Name: Laptop | Qty: 3\n" +
		"2. Name: Monitor | Qty: 5\n"

	answer := engine.Ask(context.Background(), contextText,
		"How many laptops are in stock? Answer with just the number.")

	if strings.HasPrefix(answer, "Error communicating with Gemini AI") {
		t.Fatalf("Ask() failed: %s", answer)
	}
	if !strings.Contains(answer, "3") {
		t.Errorf("Ask() = %q, expected the laptop count 3", answer)
	}
}

func TestE2EAskAdmitsMissingData(t *testing.T) {
	setup := testutil.SetupGoogleAI(t)

	engine, err := NewEngine(EngineConfig{
		Genkit:      setup.Genkit,
		ModelName:   "googleai/gemini-2.5-flash",
		Temperature: 0.2,
		MaxTokens:   1024,
		Timeout:     90 * time.Second,
		Logger:      setup.Logger,
	})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	contextText := "CODA DOCUMENT DATA:\n\n" +
		"=== PAGE: Notes ===\n\n" +
		"TABLE: Log\n" +
		"Columns: Entry\n" +
		"1. Entry: hello\n"

	answer := engine.Ask(context.Background(), contextText,
		"What is the total revenue for Q3?")

	if strings.HasPrefix(answer, "Error communicating with Gemini AI") {
		t.Fatalf("Ask() failed: %s", answer)
	}
	if answer == "" {
		t.Error("Ask() returned an empty answer")
	}
}
