package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/sdvincy/coda-assistant/internal/answer"
	"github.com/sdvincy/coda-assistant/internal/coda"
	"github.com/sdvincy/coda-assistant/internal/config"
	"github.com/sdvincy/coda-assistant/internal/observability"
	"github.com/sdvincy/coda-assistant/internal/snapshot"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	client, err := provideCodaClient(cfg)
	if err != nil {
		return nil, err
	}
	a.Coda = client

	a.Snapshots = provideSnapshotCache(client, logger)

	engine, err := provideEngine(g, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Engine = engine

	return a, nil
}

// provideOtelShutdown sets up Datadog tracing before Genkit initialization.
// Must be called before provideGenkit so Genkit's TracerProvider carries
// the exporter from the first span on.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	shutdown, err := observability.SetupDatadog(ctx, observability.Config{
		AgentHost:   cfg.Datadog.AgentHost,
		Environment: cfg.Datadog.Environment,
		ServiceName: cfg.Datadog.ServiceName,
	})
	if err != nil {
		logger.Warn("datadog setup failed, tracing disabled", "error", err)
		return func() {}
	}

	//nolint:contextcheck // Independent context: shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the Google AI plugin. The plugin
// reads GEMINI_API_KEY from the environment; config validation has
// already checked its presence.
func provideGenkit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}

	logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	return g, nil
}

// provideCodaClient creates the Coda REST client from configuration.
func provideCodaClient(cfg *config.Config) (*coda.Client, error) {
	client, err := coda.New(coda.ClientConfig{
		Token:   cfg.CodaAPIKey,
		BaseURL: cfg.CodaBaseURL,
		Timeout: time.Duration(cfg.CodaTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating coda client: %w", err)
	}
	return client, nil
}

// provideSnapshotCache wires the snapshot builder and its process cache.
// Both get component-scoped loggers so skip decisions and cache activity
// stay attributable in mixed output.
func provideSnapshotCache(client *coda.Client, logger *slog.Logger) *snapshot.Cache {
	builder := snapshot.NewBuilder(client, logger.With("component", "snapshot"))
	return snapshot.NewCache(builder, logger.With("component", "cache"))
}

// provideEngine builds the Gemini answer engine.
func provideEngine(g *genkit.Genkit, cfg *config.Config, logger *slog.Logger) (*answer.Engine, error) {
	engine, err := answer.NewEngine(answer.EngineConfig{
		Genkit:      g,
		ModelName:   cfg.FullModelName(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.GeminiTimeoutSeconds) * time.Second,
		Logger:      logger.With("component", "answer"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating answer engine: %w", err)
	}
	return engine, nil
}
