package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

const defaultGenerateTimeout = 60 * time.Second

var (
	// ErrNilGenkit is returned when the engine is built without a Genkit instance.
	ErrNilGenkit = errors.New("genkit instance is required")
	// ErrEmptyModelName is returned when the engine is built without a model name.
	ErrEmptyModelName = errors.New("model name is required")
	// ErrNilLogger is returned when the engine is built without a logger.
	ErrNilLogger = errors.New("logger is required")
)

// Engine answers questions about a workspace snapshot with Gemini.
type Engine struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *slog.Logger
}

// EngineConfig carries the dependencies and generation settings for an Engine.
type EngineConfig struct {
	Genkit      *genkit.Genkit
	ModelName   string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *slog.Logger
}

// NewEngine builds an Engine, validating its required dependencies.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Genkit == nil {
		return nil, ErrNilGenkit
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, ErrEmptyModelName
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultGenerateTimeout
	}

	return &Engine{
		g:           cfg.Genkit,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}, nil
}

// Ask sends the snapshot text and question to the model and returns its
// answer. It never fails: any model error is folded into a readable
// message so callers can hand the result straight to users.
func (e *Engine) Ask(ctx context.Context, contextText, question string) string {
	text, err := e.generate(ctx, contextText, question)
	if err != nil {
		e.logger.Error("model generation failed",
			"model", e.modelName,
			"error", err)
		return fmt.Sprintf("Error communicating with Gemini AI: %v", err)
	}
	return text
}

func (e *Engine) generate(ctx context.Context, contextText, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	temp := e.temperature
	opts := []ai.GenerateOption{
		ai.WithPrompt(Prompt(contextText, question)),
		ai.WithModelName(e.modelName),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: int32(e.maxTokens),
		}),
	}

	response, err := genkit.Generate(ctx, e.g, opts...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(response.Text()), nil
}
