package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// GoogleAISetup contains the resources needed for tests that talk to
// the real Gemini API.
type GoogleAISetup struct {
	Genkit *genkit.Genkit
	Logger *slog.Logger
}

// SetupGoogleAI initializes Genkit with the Google AI plugin for testing.
//
// Requirements:
//   - GEMINI_API_KEY environment variable must be set
//   - Skips test if API key is not available
//
// Example:
//
//	func TestAnswer(t *testing.T) {
//	    setup := testutil.SetupGoogleAI(t)
//	    // Use setup.Genkit, setup.Logger
//	}
func SetupGoogleAI(t *testing.T) *GoogleAISetup {
	t.Helper()

	// Check for required API key
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set - skipping test requiring Gemini access")
	}

	// Initialize Genkit with Google AI plugin
	g := genkit.Init(context.Background(),
		genkit.WithPlugins(&googlegenai.GoogleAI{}))

	// Create quiet logger for tests (discard all logs)
	logger := slog.New(slog.DiscardHandler)

	return &GoogleAISetup{
		Genkit: g,
		Logger: logger,
	}
}
