package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sdvincy/coda-assistant/internal/coda"
	"github.com/sdvincy/coda-assistant/internal/snapshot"
)

// tableSummary is one table's entry in the data-summary breakdown.
type tableSummary struct {
	TableName string `json:"table_name"`
	RowCount  int    `json:"row_count"`
}

// pageSummary is one page's entry in the data-summary breakdown.
type pageSummary struct {
	PageName string         `json:"page_name"`
	Tables   []tableSummary `json:"tables"`
}

// summaryCounts aggregates totals across the whole snapshot.
type summaryCounts struct {
	TotalPages  int `json:"total_pages"`
	TotalTables int `json:"total_tables"`
	TotalRows   int `json:"total_rows"`
}

// summaryResponse is the body of GET /data-summary.
type summaryResponse struct {
	Document string        `json:"document"`
	Summary  summaryCounts `json:"summary"`
	Pages    []pageSummary `json:"pages"`
}

// refreshCache handles POST /refresh-cache: clears the snapshot cache
// and eagerly rebuilds it, so the next question sees fresh data.
func (h *assistantHandler) refreshCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docID, err := h.resolver.ResolveDocID(ctx, h.docName)
	if err != nil {
		if errors.Is(err, coda.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Coda document not found")
			return
		}
		h.logger.Error("resolving document", "error", err, "document", h.docName)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Error refreshing cache: %v", err))
		return
	}

	if _, err := h.snapshots.Refresh(ctx, docID); err != nil {
		h.logger.Error("refreshing snapshot", "error", err, "doc_id", docID)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Error refreshing cache: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Cache refreshed successfully",
		"status":  "success",
	})
}

// dataSummary handles GET /data-summary: reports page, table, and row
// counts from the cached-or-built snapshot.
func (h *assistantHandler) dataSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docID, err := h.resolver.ResolveDocID(ctx, h.docName)
	if err != nil {
		if errors.Is(err, coda.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Coda document not found")
			return
		}
		h.logger.Error("resolving document", "error", err, "document", h.docName)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Error getting data summary: %v", err))
		return
	}

	snap, err := h.snapshots.Get(ctx, docID)
	if err != nil {
		h.logger.Error("building snapshot", "error", err, "doc_id", docID)
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Error getting data summary: %v", err))
		return
	}

	pages := make([]pageSummary, len(snap.Pages))
	for i, p := range snap.Pages {
		tables := make([]tableSummary, len(p.Tables))
		for j, t := range p.Tables {
			tables[j] = tableSummary{TableName: t.Name, RowCount: len(t.Rows)}
		}
		pages[i] = pageSummary{PageName: p.Name, Tables: tables}
	}

	totalTables, totalRows := snapshot.Totals(snap.Pages)
	writeJSON(w, http.StatusOK, summaryResponse{
		Document: h.docName,
		Summary: summaryCounts{
			TotalPages:  len(snap.Pages),
			TotalTables: totalTables,
			TotalRows:   totalRows,
		},
		Pages: pages,
	})
}
