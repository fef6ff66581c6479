package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"themefinder/internal/document"
	"themefinder/internal/extract"
)

type uploadedDocument struct {
	DocID          string `json:"doc_id"`
	Filename       string `json:"filename"`
	ParagraphCount int    `json:"paragraph_count"`
}

type skippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type uploadResponse struct {
	Uploaded []uploadedDocument `json:"uploaded_documents"`
	Skipped  []skippedFile      `json:"skipped,omitempty"`
	Message  string             `json:"message"`
}

// handleUpload accepts one or more files in the multipart field "files",
// extracts paragraphs from each, and persists the structured documents.
// Files that fail extraction are reported as skipped; the batch fails only
// when nothing at all could be processed.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, http.StatusBadRequest, "no files provided in field \"files\"")
		return
	}

	resp := uploadResponse{Uploaded: []uploadedDocument{}}
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if filename == "" {
			resp.Skipped = append(resp.Skipped, skippedFile{Filename: fh.Filename, Reason: "invalid filename"})
			continue
		}
		if !extract.IsSupportedExtension(filename) {
			resp.Skipped = append(resp.Skipped, skippedFile{
				Filename: filename,
				Reason:   fmt.Sprintf("unsupported file type %q", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			resp.Skipped = append(resp.Skipped, skippedFile{Filename: filename, Reason: "unreadable upload"})
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			resp.Skipped = append(resp.Skipped, skippedFile{Filename: filename, Reason: "unreadable upload"})
			continue
		}

		docID := document.NewDocID()
		rawPath := filepath.Join(s.cfg.UploadDir, docID+"_"+filename)
		if err := os.WriteFile(rawPath, data, 0o644); err != nil {
			s.log.Error("failed to persist upload", "filename", filename, "error", err)
			resp.Skipped = append(resp.Skipped, skippedFile{Filename: filename, Reason: "storage failure"})
			continue
		}

		paragraphs, err := s.engine.ExtractFile(r.Context(), data, filename)
		if err != nil {
			reason := "extraction failed"
			if errors.Is(err, extract.ErrNoContent) {
				reason = "no extractable text content"
			}
			s.log.Warn("upload skipped", "filename", filename, "error", err)
			resp.Skipped = append(resp.Skipped, skippedFile{Filename: filename, Reason: reason})
			continue
		}

		doc := document.Document{
			DocID:      docID,
			Filename:   filename,
			SourcePath: rawPath,
			Paragraphs: paragraphs,
		}
		if err := s.docs.Save(doc); err != nil {
			s.log.Error("failed to save document", "doc_id", docID, "error", err)
			resp.Skipped = append(resp.Skipped, skippedFile{Filename: filename, Reason: "storage failure"})
			continue
		}

		resp.Uploaded = append(resp.Uploaded, uploadedDocument{
			DocID:          docID,
			Filename:       filename,
			ParagraphCount: len(paragraphs),
		})
	}

	if len(resp.Uploaded) == 0 {
		jsonError(w, http.StatusBadRequest, "no files could be processed")
		return
	}

	resp.Message = fmt.Sprintf("Processed %d document(s). Call POST /api/index to make them searchable.", len(resp.Uploaded))
	writeJSON(w, http.StatusOK, resp)
}

// sanitizeFilename strips any path components so uploads cannot escape the
// upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
