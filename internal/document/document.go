package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Paragraph is the atomic retrieval unit: one extracted paragraph with its
// page/paragraph provenance. Page and ParaNum are 1-based; ParaNum is
// consecutive within a page.
type Paragraph struct {
	Page    int    `json:"page"`
	ParaNum int    `json:"para_num"`
	Text    string `json:"text"`
}

// Document is an ingested file after extraction. Created once at ingestion,
// immutable thereafter.
type Document struct {
	DocID      string      `json:"doc_id"`
	Filename   string      `json:"filename"`
	SourcePath string      `json:"source_path"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// SearchHit is a chunk payload plus similarity score, produced per query.
type SearchHit struct {
	DocID    string  `json:"doc_id"`
	Filename string  `json:"filename"`
	Page     int     `json:"page"`
	ParaNum  int     `json:"para_num"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

// Citation is the display view of a hit: same provenance, text truncated
// for presentation.
type Citation struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	ParaNum  int    `json:"para_num"`
	Text     string `json:"text"`
}

// QueryResponse is the caller-facing answer: citations plus the synthesized
// theme narrative.
type QueryResponse struct {
	Citations []Citation `json:"citations"`
	Themes    string     `json:"themes"`
}

// ChunkKey is the stable key of a paragraph within a document. It is unique
// per document by construction and unchanged across re-indexing runs.
func ChunkKey(docID string, ordinal int) string {
	return fmt.Sprintf("%s_%d", docID, ordinal)
}

// ChunkPointID maps a chunk key to a deterministic UUIDv5, since the vector
// store only accepts UUID or integer point IDs. Same inputs always produce
// the same ID, which is what makes re-indexing an idempotent upsert.
func ChunkPointID(docID string, ordinal int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(ChunkKey(docID, ordinal))).String()
}

var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("themefinder/chunk"))

// NewDocID returns a short uppercase document identifier. Every ingestion
// gets a fresh one; re-uploading a file never reuses an ID.
func NewDocID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
