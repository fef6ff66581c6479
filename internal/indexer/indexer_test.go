package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"themefinder/internal/document"
	"themefinder/internal/qdrant"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCorpus struct {
	docs []document.Document
	err  error
}

func (f *fakeCorpus) LoadAll() ([]document.Document, error) { return f.docs, f.err }

type fakeStore struct {
	mu        sync.Mutex
	points    map[string]qdrant.Point
	exists    bool
	createErr error
	upsertErr error
	recreated bool
	ensured   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{points: make(map[string]qdrant.Point)}
}

func (f *fakeStore) EnsureCollection(ctx context.Context, dim int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = true
	f.exists = true
	return f.createErr
}

func (f *fakeStore) Recreate(ctx context.Context, dim int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recreated = true
	f.exists = true
	f.points = make(map[string]qdrant.Point)
	return f.createErr
}

func (f *fakeStore) Upsert(ctx context.Context, points []qdrant.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

func (f *fakeStore) Exists(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points), nil
}

type fakeEmbedder struct {
	dim     int
	failFor string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.failFor != "" && text == f.failFor {
		return nil, errors.New("embedding unavailable")
	}
	return make([]float32, f.dim), nil
}

func sampleDoc(docID string, texts ...string) document.Document {
	doc := document.Document{DocID: docID, Filename: docID + ".txt"}
	for i, t := range texts {
		doc.Paragraphs = append(doc.Paragraphs, document.Paragraph{
			Page: 1, ParaNum: i + 1, Text: t,
		})
	}
	return doc
}

func TestIndexEmptyCorpus(t *testing.T) {
	ix := New(&fakeCorpus{}, newFakeStore(), &fakeEmbedder{dim: 4}, testLogger(), 4, 2)
	_, err := ix.Index(context.Background(), false)
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("got %v, want ErrNoDocuments", err)
	}
}

func TestIndexUpsertsEligibleParagraphs(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "a paragraph long enough to embed", "another embeddable paragraph"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	report, err := ix.Index(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Documents != 1 || report.Paragraphs != 2 || report.Skipped != 0 {
		t.Errorf("report = %+v, want 1 doc, 2 paragraphs, 0 skipped", report)
	}
	if len(store.points) != 2 {
		t.Errorf("store holds %d points, want 2", len(store.points))
	}
	if !store.ensured || store.recreated {
		t.Error("expected EnsureCollection without Recreate")
	}
}

func TestIndexIsIdempotent(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "a paragraph long enough to embed", "another embeddable paragraph"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	for i := 0; i < 2; i++ {
		if _, err := ix.Index(context.Background(), false); err != nil {
			t.Fatal(err)
		}
	}
	if len(store.points) != 2 {
		t.Errorf("store holds %d points after re-index, want 2", len(store.points))
	}
}

func TestIndexSkipsShortParagraphs(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "short", "a paragraph long enough to embed"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	report, err := ix.Index(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Paragraphs != 1 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 1 indexed and 1 skipped", report)
	}
}

func TestIndexIsolatesParagraphFailures(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "this paragraph embeds without trouble", "this paragraph always fails"),
	}}
	store := newFakeStore()
	embedder := &fakeEmbedder{dim: 4, failFor: "this paragraph always fails"}
	ix := New(corpus, store, embedder, testLogger(), 4, 2)

	report, err := ix.Index(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Paragraphs != 1 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 1 indexed and 1 skipped", report)
	}
}

func TestIndexCollectionFailureAborts(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "a paragraph long enough to embed"),
	}}
	store := newFakeStore()
	store.createErr = fmt.Errorf("qdrant unreachable")
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	_, err := ix.Index(context.Background(), false)
	if err == nil {
		t.Fatal("expected collection failure to abort the run")
	}
}

func TestIndexNothingIndexed(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "fails"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	_, err := ix.Index(context.Background(), false)
	if !errors.Is(err, ErrNothingIndexed) {
		t.Fatalf("got %v, want ErrNothingIndexed", err)
	}
}

func TestIndexRecreateDropsFirst(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "a paragraph long enough to embed"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	if _, err := ix.Index(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if !store.recreated {
		t.Error("recreate flag should drop and recreate the collection")
	}
}

func TestIndexRejectsWrongDimension(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "a paragraph long enough to embed"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 3}, testLogger(), 4, 2)

	_, err := ix.Index(context.Background(), false)
	if !errors.Is(err, ErrNothingIndexed) {
		t.Fatalf("got %v, want ErrNothingIndexed when every embedding is mis-sized", err)
	}
	if len(store.points) != 0 {
		t.Errorf("store holds %d points, want 0", len(store.points))
	}
}

func TestStats(t *testing.T) {
	corpus := &fakeCorpus{docs: []document.Document{
		sampleDoc("DOC1", "a paragraph long enough to embed"),
	}}
	store := newFakeStore()
	ix := New(corpus, store, &fakeEmbedder{dim: 4}, testLogger(), 4, 2)

	stats := ix.Stats(context.Background())
	if stats.Indexed {
		t.Error("stats should report not indexed before the collection exists")
	}

	if _, err := ix.Index(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	stats = ix.Stats(context.Background())
	if !stats.Indexed || stats.Documents != 1 || stats.Paragraphs != 1 {
		t.Errorf("stats = %+v, want indexed with 1 document and 1 paragraph", stats)
	}
}
