package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sdvincy/coda-assistant/internal/snapshot"
)

// maxBodyBytes caps request bodies on POST endpoints.
const maxBodyBytes = 1024 * 1024 // 1 MiB

// DocResolver resolves a document name to its ID.
type DocResolver interface {
	ResolveDocID(ctx context.Context, name string) (string, error)
}

// SnapshotSource serves the cached workspace snapshot.
type SnapshotSource interface {
	Get(ctx context.Context, docID string) (*snapshot.Result, error)
	Refresh(ctx context.Context, docID string) (*snapshot.Result, error)
}

// Answerer turns snapshot text and a question into an answer.
// Implementations never fail; faults arrive folded into the answer text.
type Answerer interface {
	Ask(ctx context.Context, contextText, question string) string
}

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Resolver    DocResolver    // Required
	Snapshots   SnapshotSource // Required
	Engine      Answerer       // Required
	DocName     string         // Required: document the assistant answers about
	Version     string         // Reported by GET / (default "1.0.0")
	CORSOrigins []string       // Allowed origins for CORS ("*" allows any)
	TrustProxy  bool           // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateRPS     float64        // Rate limiter refill per IP (0 = default 5)
	RateBurst   int            // Rate limiter burst size per IP (0 = default 10)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("document resolver is required")
	}
	if cfg.Snapshots == nil {
		return nil, errors.New("snapshot source is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("answer engine is required")
	}
	if cfg.DocName == "" {
		return nil, errors.New("document name is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}

	h := &assistantHandler{
		resolver:  cfg.Resolver,
		snapshots: cfg.Snapshots,
		engine:    cfg.Engine,
		docName:   cfg.DocName,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", h.ask)
	mux.HandleFunc("POST /cliq/ask", h.cliqAsk)
	mux.HandleFunc("POST /refresh-cache", h.refreshCache)
	mux.HandleFunc("GET /data-summary", h.dataSummary)

	// Rate limiter: per-IP token bucket
	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 5.0
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 10
	}
	rl := newIPLimiter(rps, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Wrap with security headers
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to keep liveness endpoints outside the
	// middleware stack, so probes are never rate limited.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /{$}", root(version))
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
