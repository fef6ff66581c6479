package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"themefinder/internal/indexer"
)

type indexRequest struct {
	Recreate bool `json:"recreate"`
}

// handleIndex embeds every stored paragraph into the vector collection.
// Re-running it is safe: chunk IDs are deterministic, so existing points
// are overwritten rather than duplicated.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if r.Body != nil {
		// The body is optional; ignore decode errors for empty bodies.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	report, err := s.indexer.Index(r.Context(), req.Recreate)
	if err != nil {
		switch {
		case errors.Is(err, indexer.ErrNoDocuments):
			jsonError(w, http.StatusBadRequest, "no documents to index; upload documents first")
		case errors.Is(err, indexer.ErrNothingIndexed):
			jsonError(w, http.StatusInternalServerError, "indexing produced no vectors; check embedding service connectivity")
		default:
			s.log.Error("indexing failed", "error", err)
			jsonError(w, http.StatusInternalServerError, fmt.Sprintf("indexing failed: %v", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":            fmt.Sprintf("Indexed %d document(s)", report.Documents),
		"indexed_documents":  report.Documents,
		"total_paragraphs":   report.Paragraphs,
		"skipped_paragraphs": report.Skipped,
	})
}

func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.indexer.Stats(r.Context()))
}
