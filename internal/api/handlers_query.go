package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"themefinder/internal/document"

	"github.com/go-chi/chi/v5"
)

type queryRequest struct {
	Question string `json:"question"`
}

// handleQuery answers a natural-language question over the indexed corpus.
// The synthesis layer degrades internally, so this handler always returns
// 200 once the request itself is valid.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		jsonError(w, http.StatusBadRequest, "question is required")
		return
	}

	resp := s.synth.Synthesize(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, resp)
}

// handleDocumentChunks lists the indexed chunks of one document in reading
// order (page, then paragraph number).
func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if docID == "" {
		jsonError(w, http.StatusBadRequest, "doc_id is required")
		return
	}

	hits := s.search.HitsForDocument(r.Context(), docID)
	if hits == nil {
		hits = []document.SearchHit{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id": docID,
		"chunks": hits,
	})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"model":    s.llm.Model(),
		"embed":    s.llm.EmbedStats.Snapshot(),
		"complete": s.llm.CompleteStats.Snapshot(),
	})
}
