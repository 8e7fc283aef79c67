package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/firebase/genkit/go/genkit"

	"github.com/sdvincy/coda-assistant/internal/answer"
	"github.com/sdvincy/coda-assistant/internal/coda"
	"github.com/sdvincy/coda-assistant/internal/config"
	"github.com/sdvincy/coda-assistant/internal/snapshot"
	"github.com/sdvincy/coda-assistant/internal/testutil"
)

// ============================================================================
// Fixtures
// ============================================================================

// newCodaFixture serves a one-page one-table workspace and counts hits
// per path so tests can observe cache behavior.
func newCodaFixture(t *testing.T) (*httptest.Server, func(path string) int) {
	t.Helper()

	var mu sync.Mutex
	hits := make(map[string]int)

	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			hits[r.URL.Path]++
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}

	serve("/docs", `{"items":[{"id":"doc-1","name":"samdanielvincy's Coda Playground"}]}`)
	serve("/docs/doc-1/pages", `{"items":[{"id":"p1","name":"Inventory"}]}`)
	serve("/docs/doc-1/tables", `{"items":[{"id":"t1","name":"Items","parent":{"id":"p1"}}]}`)
	serve("/docs/doc-1/tables/t1/columns", `{"items":[{"id":"c1","name":"Name"},{"id":"c2","name":"Qty"}]}`)
	serve("/docs/doc-1/tables/t1/rows", `{"items":[{"id":"r1","values":{"c1":"Laptop","c2":3}}]}`)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	count := func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return hits[path]
	}
	return server, count
}

// newFixtureApp wires a complete App against the fixture workspace and a
// mock model, bypassing Setup so no API keys or plugins are needed.
func newFixtureApp(t *testing.T) (*App, *testutil.MockLLM, func(path string) int) {
	t.Helper()

	server, count := newCodaFixture(t)
	logger := testutil.DiscardLogger()

	client, err := coda.New(coda.ClientConfig{
		Token:   "test-token",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("creating coda client: %v", err)
	}

	g := genkit.Init(context.Background())
	mock := testutil.NewMockLLM("mock answer")
	mock.RegisterModel(g)

	engine, err := answer.NewEngine(answer.EngineConfig{
		Genkit:      g,
		ModelName:   "mock/test-model",
		Temperature: 0.7,
		MaxTokens:   2048,
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}

	builder := snapshot.NewBuilder(client, logger)

	a := &App{
		Config: &config.Config{
			CodaDocName: "samdanielvincy's Coda Playground",
			CodaBaseURL: server.URL,
			ModelName:   "mock/test-model",
			CORSOrigins: []string{"*"},
		},
		Logger:    logger,
		Genkit:    g,
		Coda:      client,
		Snapshots: snapshot.NewCache(builder, logger),
		Engine:    engine,
	}
	t.Cleanup(func() { _ = a.Close() })

	return a, mock, count
}

// ============================================================================
// Setup and Close
// ============================================================================

func TestSetup_NilConfig(t *testing.T) {
	_, err := Setup(context.Background(), nil, testutil.DiscardLogger())
	if !errors.Is(err, config.ErrConfigNil) {
		t.Fatalf("Setup(nil config) error = %v, want %v", err, config.ErrConfigNil)
	}
}

func TestApp_Close(t *testing.T) {
	t.Run("empty app", func(t *testing.T) {
		a := &App{}
		if err := a.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})

	t.Run("runs otel cleanup once", func(t *testing.T) {
		calls := 0
		a := &App{
			Logger:      testutil.DiscardLogger(),
			otelCleanup: func() { calls++ },
		}

		if err := a.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}
		if err := a.Close(); err != nil {
			t.Fatalf("second Close() error: %v", err)
		}
		if calls != 1 {
			t.Errorf("otel cleanup ran %d times, want 1", calls)
		}
	})
}

// ============================================================================
// One-shot answering
// ============================================================================

func TestApp_Answer(t *testing.T) {
	a, mock, count := newFixtureApp(t)
	ctx := context.Background()

	got, err := a.Answer(ctx, "How many laptops are in stock?")
	if err != nil {
		t.Fatalf("Answer() error: %v", err)
	}
	if got != "mock answer" {
		t.Errorf("Answer() = %q, want %q", got, "mock answer")
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("model saw %d calls, want 1", len(calls))
	}
	prompt := calls[0].UserMessage
	for _, want := range []string{
		"=== PAGE: Inventory ===",
		"TABLE: Items",
		"Name: Laptop | Qty: 3",
		"How many laptops are in stock?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// A second question reuses the stored snapshot: the document is
	// re-resolved but pages are not re-fetched.
	if _, err := a.Answer(ctx, "And how many suppliers?"); err != nil {
		t.Fatalf("second Answer() error: %v", err)
	}
	if got := count("/docs/doc-1/pages"); got != 1 {
		t.Errorf("pages fetched %d times across two answers, want 1", got)
	}
	if got := count("/docs"); got != 2 {
		t.Errorf("docs listed %d times across two answers, want 2", got)
	}
}

func TestApp_Answer_UnknownDocument(t *testing.T) {
	a, _, _ := newFixtureApp(t)
	a.Config.CodaDocName = "No Such Document"

	_, err := a.Answer(context.Background(), "anything")
	if !errors.Is(err, coda.ErrDocumentNotFound) {
		t.Fatalf("Answer() error = %v, want %v", err, coda.ErrDocumentNotFound)
	}
}

func TestApp_RefreshSnapshot(t *testing.T) {
	a, _, count := newFixtureApp(t)
	ctx := context.Background()

	if _, err := a.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if _, err := a.RefreshSnapshot(ctx); err != nil {
		t.Fatalf("RefreshSnapshot() error: %v", err)
	}

	if got := count("/docs/doc-1/pages"); got != 2 {
		t.Errorf("pages fetched %d times, want 2 (initial build plus refresh)", got)
	}
}

// ============================================================================
// Server assembly
// ============================================================================

func TestApp_Server(t *testing.T) {
	a, _, _ := newFixtureApp(t)

	srv, err := a.Server("1.2.3")
	if err != nil {
		t.Fatalf("Server() error: %v", err)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health through assembled server status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestApp_Server_MissingDependencies(t *testing.T) {
	a := &App{
		Config: &config.Config{CodaDocName: "x"},
		Logger: testutil.DiscardLogger(),
	}

	if _, err := a.Server("1.0.0"); err == nil {
		t.Fatal("Server() with no components expected error, got nil")
	}
}

// ============================================================================
// Provider helpers
// ============================================================================

func TestProvideCodaClient_MissingToken(t *testing.T) {
	if _, err := provideCodaClient(&config.Config{}); err == nil {
		t.Fatal("provideCodaClient() with no token expected error, got nil")
	}
}

func TestProvideEngine_Defaults(t *testing.T) {
	g := genkit.Init(context.Background())

	engine, err := provideEngine(g, &config.Config{
		ModelName:            "gemini-2.5-flash",
		Temperature:          0.7,
		MaxTokens:            2048,
		GeminiTimeoutSeconds: 60,
	}, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("provideEngine() error: %v", err)
	}
	if engine == nil {
		t.Fatal("provideEngine() returned nil engine")
	}
}

func TestProvideOtelShutdown_NeverNil(t *testing.T) {
	cleanup := provideOtelShutdown(context.Background(), &config.Config{
		Datadog: config.DatadogConfig{
			AgentHost:   "localhost:4318",
			Environment: "test",
			ServiceName: "coda-assistant-test",
		},
	}, testutil.DiscardLogger())

	if cleanup == nil {
		t.Fatal("provideOtelShutdown() returned nil cleanup")
	}

	done := make(chan struct{})
	go func() {
		cleanup()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("otel cleanup did not return")
	}
}
