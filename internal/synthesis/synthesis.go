package synthesis

import (
	"context"
	"log/slog"

	"themefinder/internal/document"
)

// Searcher is the retrieval surface synthesis consumes.
type Searcher interface {
	Search(ctx context.Context, query string, k int) []document.SearchHit
}

// Completer generates text from a system and user prompt. It is fallible;
// the orchestrator converts failures into a textual fallback and never
// propagates them.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

// Orchestrator turns a question into citations plus a synthesized theme
// narrative. It always returns a well-formed response, whatever fails
// underneath.
type Orchestrator struct {
	searcher  Searcher
	completer Completer
	log       *slog.Logger
}

func NewOrchestrator(searcher Searcher, completer Completer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{searcher: searcher, completer: completer, log: log}
}

// Synthesize retrieves context for the question, builds citations, and asks
// the model for a theme analysis. Empty retrieval yields the fixed
// no-documents message; a completion failure yields the structured fallback.
func (o *Orchestrator) Synthesize(ctx context.Context, question string) document.QueryResponse {
	hits := o.searcher.Search(ctx, question, TopK)
	if len(hits) == 0 {
		return document.QueryResponse{
			Citations: []document.Citation{},
			Themes:    NoDocumentsMessage,
		}
	}

	citations := make([]document.Citation, 0, len(hits))
	for _, h := range hits {
		citations = append(citations, document.Citation{
			DocID:    h.DocID,
			Filename: h.Filename,
			Page:     h.Page,
			ParaNum:  h.ParaNum,
			Text:     truncateText(h.Text, citationDisplayLen),
		})
	}

	themes, err := o.completer.Complete(ctx, systemPrompt, buildUserPrompt(question, hits), temperature, maxTokens)
	if err != nil {
		o.log.Error("theme synthesis failed", "error", err, "citations", len(citations))
		themes = fallbackThemes(question, err, len(citations))
	}

	return document.QueryResponse{
		Citations: citations,
		Themes:    themes,
	}
}
