package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"themefinder/internal/document"
	"themefinder/internal/qdrant"
)

// MinEmbedLen is the eligibility floor: paragraphs shorter than this are not
// embedded.
const MinEmbedLen = 10

// ErrNoDocuments means the corpus was empty; nothing could be indexed.
var ErrNoDocuments = errors.New("no documents found to index")

// ErrNothingIndexed means documents existed but not one paragraph made it
// into the store.
var ErrNothingIndexed = errors.New("no paragraphs could be indexed")

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the vector-store surface the indexer needs.
type Store interface {
	EnsureCollection(ctx context.Context, dim int) error
	Recreate(ctx context.Context, dim int) error
	Upsert(ctx context.Context, points []qdrant.Point) error
	Exists(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Corpus supplies the documents to index.
type Corpus interface {
	LoadAll() ([]document.Document, error)
}

// Indexer populates the vector store from the document corpus. Point IDs are
// deterministic per (doc, ordinal), so re-running over an unchanged corpus
// overwrites in place.
type Indexer struct {
	corpus        Corpus
	store         Store
	embedder      Embedder
	log           *slog.Logger
	dim           int
	maxConcurrent int
}

func New(corpus Corpus, store Store, embedder Embedder, log *slog.Logger, dim, maxConcurrent int) *Indexer {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Indexer{
		corpus:        corpus,
		store:         store,
		embedder:      embedder,
		log:           log,
		dim:           dim,
		maxConcurrent: maxConcurrent,
	}
}

// Report summarizes one indexing run.
type Report struct {
	Documents  int `json:"indexed_documents"`
	Paragraphs int `json:"total_paragraphs"`
	Skipped    int `json:"skipped_paragraphs"`
}

// Index embeds and upserts every eligible paragraph. recreate drops the
// collection first; that is destructive and must not run concurrently with
// searches or other indexing. A failure on a single paragraph is logged and
// skipped; only an empty corpus or a collection-level failure aborts the run.
func (ix *Indexer) Index(ctx context.Context, recreate bool) (Report, error) {
	docs, err := ix.corpus.LoadAll()
	if err != nil {
		return Report{}, fmt.Errorf("load corpus: %w", err)
	}
	if len(docs) == 0 {
		return Report{}, ErrNoDocuments
	}

	if recreate {
		err = ix.store.Recreate(ctx, ix.dim)
	} else {
		err = ix.store.EnsureCollection(ctx, ix.dim)
	}
	if err != nil {
		return Report{}, fmt.Errorf("create collection: %w", err)
	}

	var report Report
	for _, doc := range docs {
		indexed, skipped := ix.indexDocument(ctx, doc)
		report.Paragraphs += indexed
		report.Skipped += skipped
		if indexed > 0 {
			report.Documents++
			ix.log.Info("indexed document",
				"doc_id", doc.DocID,
				"filename", doc.Filename,
				"paragraphs", indexed,
			)
		}
	}
	if report.Documents == 0 {
		return report, ErrNothingIndexed
	}
	return report, nil
}

// indexDocument fans paragraphs out under a bounded semaphore so a large
// document cannot exhaust the embedding service.
func (ix *Indexer) indexDocument(ctx context.Context, doc document.Document) (indexed, skipped int) {
	sem := make(chan struct{}, ix.maxConcurrent)
	results := make(chan error, len(doc.Paragraphs))
	launched := 0

	for i, para := range doc.Paragraphs {
		if len(strings.TrimSpace(para.Text)) < MinEmbedLen {
			skipped++
			continue
		}
		launched++
		sem <- struct{}{}
		go func(ordinal int, para document.Paragraph) {
			defer func() { <-sem }()
			results <- ix.indexParagraph(ctx, doc, ordinal, para)
		}(i, para)
	}

	for n := 0; n < launched; n++ {
		if err := <-results; err != nil {
			ix.log.Error("paragraph skipped", "doc_id", doc.DocID, "error", err)
			skipped++
		} else {
			indexed++
		}
	}
	return indexed, skipped
}

func (ix *Indexer) indexParagraph(ctx context.Context, doc document.Document, ordinal int, para document.Paragraph) error {
	vector, err := ix.embedder.Embed(ctx, para.Text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vector) != ix.dim {
		return fmt.Errorf("embedding dimension %d, want %d", len(vector), ix.dim)
	}

	point := qdrant.Point{
		ID:     document.ChunkPointID(doc.DocID, ordinal),
		Vector: vector,
		Payload: qdrant.Payload{
			DocID:    doc.DocID,
			Filename: doc.Filename,
			Page:     para.Page,
			ParaNum:  para.ParaNum,
			Text:     para.Text,
		},
	}
	if err := ix.store.Upsert(ctx, []qdrant.Point{point}); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// StatsReport reflects current corpus and store state; nothing is cached.
type StatsReport struct {
	Indexed    bool `json:"indexed"`
	Documents  int  `json:"documents"`
	Paragraphs int  `json:"paragraphs"`
}

func (ix *Indexer) Stats(ctx context.Context) StatsReport {
	exists, err := ix.store.Exists(ctx)
	if err != nil {
		ix.log.Warn("stats: collection check failed", "error", err)
		return StatsReport{}
	}
	if !exists {
		return StatsReport{}
	}

	docs, err := ix.corpus.LoadAll()
	if err != nil {
		ix.log.Warn("stats: corpus load failed", "error", err)
	}
	points, err := ix.store.Count(ctx)
	if err != nil {
		ix.log.Warn("stats: point count failed", "error", err)
	}
	return StatsReport{
		Indexed:    true,
		Documents:  len(docs),
		Paragraphs: points,
	}
}
