package coda

import "errors"

// Fault taxonomy for workspace calls. Handlers discriminate with errors.Is:
// ErrDocumentNotFound maps to a not-found response, everything else is an
// upstream/internal fault.
var (
	// ErrDocumentNotFound indicates no document matched the configured name.
	ErrDocumentNotFound = errors.New("coda document not found")

	// ErrUpstream indicates the Coda API could not be reached or returned a
	// non-success status.
	ErrUpstream = errors.New("coda API unavailable")

	// ErrMalformedResponse indicates the Coda API returned a body that could
	// not be decoded.
	ErrMalformedResponse = errors.New("malformed coda API response")
)
