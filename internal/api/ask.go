package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sdvincy/coda-assistant/internal/coda"
)

// assistantHandler holds dependencies for the question-answering endpoints.
type assistantHandler struct {
	resolver  DocResolver
	snapshots SnapshotSource
	engine    Answerer
	docName   string
	logger    *slog.Logger
}

// askRequest is the request body for POST /ask.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the success body for POST /ask.
type askResponse struct {
	Answer string `json:"answer"`
	Status string `json:"status"`
}

// Zoho Cliq message colors: red for faults, green for answers.
const (
	cliqColorError   = "#FF0000"
	cliqColorSuccess = "#4CAF50"
)

const cliqUsageHint = "Please provide a question. Usage: /coda-ai <your question>"

// cliqRequest is the slash-command payload Zoho Cliq posts to the webhook.
type cliqRequest struct {
	Text        string `json:"text"`
	UserName    string `json:"user_name,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
}

// cliqResponse is the message card rendered by Zoho Cliq.
type cliqResponse struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// ask handles POST /ask: answers a question about the configured document.
func (h *assistantHandler) ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "missing_question", "question is required")
		return
	}

	ctx := r.Context()

	docID, err := h.resolver.ResolveDocID(ctx, h.docName)
	if err != nil {
		if errors.Is(err, coda.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Coda document not found")
			return
		}
		h.logger.Error("resolving document", "error", err, "document", h.docName)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Error processing request: %v", err))
		return
	}

	snap, err := h.snapshots.Get(ctx, docID)
	if err != nil {
		h.logger.Error("building snapshot", "error", err, "doc_id", docID)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Error processing request: %v", err))
		return
	}

	answer := h.engine.Ask(ctx, snap.Text, req.Question)
	writeJSON(w, http.StatusOK, askResponse{Answer: answer, Status: "success"})
}

// cliqAsk handles POST /cliq/ask, the Zoho Cliq slash-command webhook.
// Cliq renders whatever JSON it receives, so every outcome is a 200
// {text, color} payload; faults are marked by the red color instead of
// an HTTP error status.
func (h *assistantHandler) cliqAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req cliqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, cliqResponse{Text: cliqUsageHint, Color: cliqColorError})
		return
	}

	// Empty text short-circuits before any upstream call.
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusOK, cliqResponse{Text: cliqUsageHint, Color: cliqColorError})
		return
	}

	ctx := r.Context()

	docID, err := h.resolver.ResolveDocID(ctx, h.docName)
	if err != nil {
		if errors.Is(err, coda.ErrDocumentNotFound) {
			writeJSON(w, http.StatusOK, cliqResponse{
				Text:  "❌ Coda document not found. Please check the configuration.",
				Color: cliqColorError,
			})
			return
		}
		h.logger.Error("resolving document", "error", err, "document", h.docName)
		writeJSON(w, http.StatusOK, cliqResponse{
			Text:  fmt.Sprintf("❌ Error processing your question: %v", err),
			Color: cliqColorError,
		})
		return
	}

	snap, err := h.snapshots.Get(ctx, docID)
	if err != nil {
		h.logger.Error("building snapshot", "error", err, "doc_id", docID)
		writeJSON(w, http.StatusOK, cliqResponse{
			Text:  fmt.Sprintf("❌ Error processing your question: %v", err),
			Color: cliqColorError,
		})
		return
	}

	answer := h.engine.Ask(ctx, snap.Text, req.Text)
	writeJSON(w, http.StatusOK, cliqResponse{
		Text:  fmt.Sprintf("🤖 **Coda AI Assistant**\n\n**Question:** %s\n\n**Answer:** %s", req.Text, answer),
		Color: cliqColorSuccess,
	})
}
