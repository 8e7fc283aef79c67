// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.coda-assistant/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Coda: API credential, target document name, base URL, call timeout
//   - Gemini: model selection, temperature, max tokens, call timeout
//   - Serve: listen port, CORS, proxy trust, rate limits
//   - Observability: Datadog APM tracing (see observability.go)
//
// Security: sensitive values (API keys) are never logged; MarshalJSON masks them.
// Validation: fail-fast range checks in validation.go with sentinel errors.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingGeminiKey indicates the Gemini API key is missing.
	ErrMissingGeminiKey = errors.New("missing Gemini API key")

	// ErrMissingCodaKey indicates the Coda API token is missing.
	ErrMissingCodaKey = errors.New("missing Coda API token")

	// ErrInvalidDocName indicates the target document name is empty.
	ErrInvalidDocName = errors.New("invalid document name")

	// ErrInvalidBaseURL indicates the Coda base URL is malformed.
	ErrInvalidBaseURL = errors.New("invalid Coda base URL")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidPort indicates the listen port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidTimeout indicates an upstream call timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidRateLimit indicates the rate limiter settings are out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// DefaultDocName is the Coda document the assistant answers questions about
// unless CODA_DOC_NAME overrides it.
const DefaultDocName = "samdanielvincy's Coda Playground"

// DefaultBaseURL is the public Coda REST API endpoint.
const DefaultBaseURL = "https://coda.io/apis/v1"

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (API keys, tokens), update MarshalJSON.
type Config struct {
	// Coda workspace configuration
	CodaAPIKey         string `mapstructure:"coda_api_key" json:"coda_api_key"` // SENSITIVE: masked in MarshalJSON
	CodaDocName        string `mapstructure:"coda_doc_name" json:"coda_doc_name"`
	CodaBaseURL        string `mapstructure:"coda_base_url" json:"coda_base_url"`
	CodaTimeoutSeconds int    `mapstructure:"coda_timeout_seconds" json:"coda_timeout_seconds"`

	// Gemini model configuration
	ModelName            string  `mapstructure:"model_name" json:"model_name"` // e.g. "gemini-2.5-flash"
	Temperature          float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens            int     `mapstructure:"max_tokens" json:"max_tokens"`
	GeminiTimeoutSeconds int     `mapstructure:"gemini_timeout_seconds" json:"gemini_timeout_seconds"`

	// HTTP serving configuration
	Port        int      `mapstructure:"port" json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
	RateRPS     float64  `mapstructure:"rate_rps" json:"rate_rps"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Observability configuration (see observability.go for type definition)
	Datadog DatadogConfig `mapstructure:"datadog" json:"datadog"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".coda-assistant")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Coda defaults
	viper.SetDefault("coda_doc_name", DefaultDocName)
	viper.SetDefault("coda_base_url", DefaultBaseURL)
	viper.SetDefault("coda_timeout_seconds", 30)

	// Gemini defaults
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("gemini_timeout_seconds", 60)

	// Serving defaults. CORS is wide open because the Cliq webhook and the
	// original deployment accept calls from anywhere.
	viper.SetDefault("port", 8000)
	viper.SetDefault("cors_origins", []string{"*"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_rps", 5.0)
	viper.SetDefault("rate_burst", 10)

	// Datadog defaults
	viper.SetDefault("datadog.agent_host", "localhost:4318")
	viper.SetDefault("datadog.environment", "dev")
	viper.SetDefault("datadog.service_name", "coda-assistant")
}

// bindEnvVariables binds environment variables explicitly.
// GEMINI_API_KEY is read directly by Genkit (not via Viper); Validate()
// checks its presence.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("coda_api_key", "CODA_API_KEY")
	mustBind("coda_doc_name", "CODA_DOC_NAME")
	mustBind("coda_base_url", "CODA_BASE_URL")
	mustBind("coda_timeout_seconds", "CODA_TIMEOUT_SECONDS")

	mustBind("model_name", "GEMINI_MODEL")
	mustBind("temperature", "GEMINI_TEMPERATURE")
	mustBind("max_tokens", "GEMINI_MAX_TOKENS")
	mustBind("gemini_timeout_seconds", "GEMINI_TIMEOUT_SECONDS")

	mustBind("port", "PORT")
	mustBind("cors_origins", "CORS_ORIGINS")
	mustBind("trust_proxy", "TRUST_PROXY")
	mustBind("rate_rps", "RATE_LIMIT_RPS")
	mustBind("rate_burst", "RATE_LIMIT_BURST")

	mustBind("datadog.api_key", "DD_API_KEY")
	mustBind("datadog.agent_host", "DD_AGENT_HOST")
	mustBind("datadog.environment", "DD_ENV")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) avoid accidental substring matches against the
// real secret.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 chars or fewer are fully masked; longer ones keep the first
// and last 2 characters for debug utility. This defends against accidental
// logging, not against compromised logs; rotate secrets in that case.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	prefix := make([]byte, 2)
	suffix := make([]byte, 2)
	copy(prefix, s[:2])
	copy(suffix, s[len(s)-2:])
	return string(prefix) + "<" + maskedValue + ">" + string(suffix)
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - CodaAPIKey
//   - Datadog.APIKey (via DatadogConfig.MarshalJSON)
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.CodaAPIKey = maskSecret(a.CodaAPIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// FullModelName returns the provider-qualified model name for Genkit,
// e.g. "googleai/gemini-2.5-flash". A ModelName already containing "/" is
// returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return "googleai/" + c.ModelName
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
