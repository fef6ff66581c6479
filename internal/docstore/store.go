package docstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"themefinder/internal/document"
)

// Store persists extracted documents as one JSON file per document under a
// directory. It is the corpus the indexer reads, so indexing stats always
// reflect what is actually on disk.
type Store struct {
	dir string
	log *slog.Logger
}

func New(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create processed dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Save writes a document to <dir>/<DOCID>.json.
func (s *Store) Save(doc document.Document) error {
	if doc.DocID == "" {
		return fmt.Errorf("document has no doc_id")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.DocID, err)
	}
	path := filepath.Join(s.dir, doc.DocID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", doc.DocID, err)
	}
	return nil
}

// LoadAll reads every stored document. A file that fails to load is logged
// and skipped; the rest of the corpus still loads.
func (s *Store) LoadAll() ([]document.Document, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan processed dir: %w", err)
	}

	docs := make([]document.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		var doc document.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			s.log.Warn("skipping malformed document", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
