// Package app assembles the assistant: configuration, logging, tracing,
// the Coda client, the snapshot cache, and the Gemini answer engine.
// Setup builds everything in dependency order; Close releases it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"

	"github.com/sdvincy/coda-assistant/internal/answer"
	"github.com/sdvincy/coda-assistant/internal/api"
	"github.com/sdvincy/coda-assistant/internal/coda"
	"github.com/sdvincy/coda-assistant/internal/config"
	"github.com/sdvincy/coda-assistant/internal/snapshot"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	// Core services
	Genkit    *genkit.Genkit
	Coda      *coda.Client
	Snapshots *snapshot.Cache
	Engine    *answer.Engine

	// Lifecycle management
	otelCleanup func()
}

// Close shuts down background resources, flushing any pending trace
// spans. Safe on a partially built App and safe to call twice.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.otelCleanup != nil {
		a.otelCleanup()
		a.otelCleanup = nil
	}

	return nil
}

// Server assembles the HTTP API server backed by this App's components.
func (a *App) Server(version string) (*api.Server, error) {
	srv, err := api.NewServer(api.ServerConfig{
		Logger:      a.Logger.With("component", "api"),
		Resolver:    a.Coda,
		Snapshots:   a.Snapshots,
		Engine:      a.Engine,
		DocName:     a.Config.CodaDocName,
		Version:     version,
		CORSOrigins: a.Config.CORSOrigins,
		TrustProxy:  a.Config.TrustProxy,
		RateRPS:     a.Config.RateRPS,
		RateBurst:   a.Config.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling api server: %w", err)
	}
	return srv, nil
}

// Answer resolves the configured document, reuses or builds its
// snapshot, and asks the engine one question. This is the one-shot path
// used by the CLI and the MCP tools.
func (a *App) Answer(ctx context.Context, question string) (string, error) {
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return a.Engine.Ask(ctx, snap.Text, question), nil
}

// Snapshot returns the cached aggregate of the configured document,
// building it on first use.
func (a *App) Snapshot(ctx context.Context) (*snapshot.Result, error) {
	docID, err := a.Coda.ResolveDocID(ctx, a.Config.CodaDocName)
	if err != nil {
		return nil, fmt.Errorf("resolving document %q: %w", a.Config.CodaDocName, err)
	}

	snap, err := a.Snapshots.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}
	return snap, nil
}

// RefreshSnapshot discards the cached aggregate and rebuilds it.
func (a *App) RefreshSnapshot(ctx context.Context) (*snapshot.Result, error) {
	docID, err := a.Coda.ResolveDocID(ctx, a.Config.CodaDocName)
	if err != nil {
		return nil, fmt.Errorf("resolving document %q: %w", a.Config.CodaDocName, err)
	}

	snap, err := a.Snapshots.Refresh(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("rebuilding snapshot: %w", err)
	}
	return snap, nil
}
