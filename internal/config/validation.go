package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// API credentials. GEMINI_API_KEY is consumed by Genkit directly, so it
	// lives in the environment rather than the struct.
	if c.CodaAPIKey == "" {
		return fmt.Errorf("%w: CODA_API_KEY environment variable is required\n"+
			"Generate a token at: https://coda.io/account", ErrMissingCodaKey)
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingGeminiKey)
	}

	// Coda workspace configuration
	if strings.TrimSpace(c.CodaDocName) == "" {
		return fmt.Errorf("%w: coda_doc_name cannot be empty", ErrInvalidDocName)
	}

	if !strings.HasPrefix(c.CodaBaseURL, "http://") && !strings.HasPrefix(c.CodaBaseURL, "https://") {
		return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidBaseURL, c.CodaBaseURL)
	}

	if c.CodaTimeoutSeconds < 1 || c.CodaTimeoutSeconds > 300 {
		return fmt.Errorf("%w: coda_timeout_seconds must be between 1 and 300, got %d",
			ErrInvalidTimeout, c.CodaTimeoutSeconds)
	}

	// Model configuration
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	// MaxTokens range: 1 to 2097152 (Gemini 2.5 max context window)
	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.GeminiTimeoutSeconds < 1 || c.GeminiTimeoutSeconds > 600 {
		return fmt.Errorf("%w: gemini_timeout_seconds must be between 1 and 600, got %d",
			ErrInvalidTimeout, c.GeminiTimeoutSeconds)
	}

	// Serving configuration
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPort, c.Port)
	}

	if c.RateRPS <= 0 {
		return fmt.Errorf("%w: rate_rps must be positive, got %g", ErrInvalidRateLimit, c.RateRPS)
	}

	if c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1, got %d", ErrInvalidRateLimit, c.RateBurst)
	}

	return nil
}
