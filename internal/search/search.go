package search

import (
	"context"
	"log/slog"
	"sort"

	"themefinder/internal/document"
	"themefinder/internal/qdrant"
)

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the vector-store surface retrieval needs.
type Store interface {
	Exists(ctx context.Context) (bool, error)
	Search(ctx context.Context, vector []float32, k int) ([]qdrant.ScoredPoint, error)
	Scroll(ctx context.Context, docID string) ([]qdrant.Payload, error)
}

// DefaultTopK is the hit limit used when a caller passes a non-positive k.
const DefaultTopK = 10

// Service answers similarity queries and per-document listings.
type Service struct {
	store    Store
	embedder Embedder
	log      *slog.Logger
}

func New(store Store, embedder Embedder, log *slog.Logger) *Service {
	return &Service{store: store, embedder: embedder, log: log}
}

// Search returns at most k hits ordered by descending similarity. A missing
// collection is a normal empty outcome; embedding or transport failures are
// logged and surfaced as an empty result set, never raised to the caller.
func (s *Service) Search(ctx context.Context, query string, k int) []document.SearchHit {
	if k <= 0 {
		k = DefaultTopK
	}

	exists, err := s.store.Exists(ctx)
	if err != nil {
		s.log.Error("search: collection check failed", "error", err)
		return nil
	}
	if !exists {
		return nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Error("search: query embedding failed", "error", err)
		return nil
	}

	points, err := s.store.Search(ctx, vector, k)
	if err != nil {
		s.log.Error("search: vector query failed", "error", err)
		return nil
	}

	hits := make([]document.SearchHit, 0, len(points))
	for _, p := range points {
		hits = append(hits, document.SearchHit{
			DocID:    p.Payload.DocID,
			Filename: p.Payload.Filename,
			Page:     p.Payload.Page,
			ParaNum:  p.Payload.ParaNum,
			Text:     p.Payload.Text,
			Score:    p.Score,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// HitsForDocument lists every chunk of one document in reading order,
// ascending by page then paragraph number. No similarity scoring is applied;
// callers must not confuse this with ranked search results. Store failures
// follow the same contract as Search: logged and surfaced as an empty list.
func (s *Service) HitsForDocument(ctx context.Context, docID string) []document.SearchHit {
	exists, err := s.store.Exists(ctx)
	if err != nil {
		s.log.Error("document listing: collection check failed", "error", err)
		return nil
	}
	if !exists {
		return nil
	}

	payloads, err := s.store.Scroll(ctx, docID)
	if err != nil {
		s.log.Error("document listing: scroll failed", "doc_id", docID, "error", err)
		return nil
	}

	hits := make([]document.SearchHit, 0, len(payloads))
	for _, p := range payloads {
		hits = append(hits, document.SearchHit{
			DocID:    p.DocID,
			Filename: p.Filename,
			Page:     p.Page,
			ParaNum:  p.ParaNum,
			Text:     p.Text,
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Page != hits[j].Page {
			return hits[i].Page < hits[j].Page
		}
		return hits[i].ParaNum < hits[j].ParaNum
	})
	return hits
}
