// Package api provides the JSON HTTP server for the Coda assistant.
//
// # Architecture
//
// The server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery → RequestID → Logging → CORS → RateLimit → Routes
//
// Liveness endpoints (GET / and GET /health) bypass the rate limiter via
// a top-level mux, so probes stay cheap and never get throttled.
//
// # Endpoints
//
// Liveness (no rate limiting):
//   - GET / returns a service banner
//   - GET /health returns {"status":"healthy","service":"Coda AI Assistant"}
//
// Question answering:
//   - POST /ask answers a question about the configured document
//   - POST /cliq/ask serves the Zoho Cliq slash-command webhook; it always
//     responds 200 with a {text, color} payload the chat client can render
//
// Cache management:
//   - POST /refresh-cache clears and eagerly rebuilds the snapshot cache
//   - GET /data-summary reports page, table, and row counts of the snapshot
//
// # Error Handling
//
// Error responses use one shape:
//
//	{"error": "<code>", "message": "<human readable>"}
//
// A missing document renders 404, any other upstream or internal fault
// renders 500. The cliq webhook is the exception: it folds every failure
// into a soft 200 payload with a red color marker.
//
// # Security
//
// The middleware stack enforces:
//   - Per-IP rate limiting (token bucket via golang.org/x/time/rate)
//   - CORS with a configurable origin allowlist ("*" permitted)
//   - Security headers (CSP, X-Frame-Options, nosniff)
//   - Request body size cap (1 MiB)
package api
