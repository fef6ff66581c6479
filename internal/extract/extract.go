package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"themefinder/internal/document"
)

// Format classifies an input file for extraction.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatImage    Format = "image"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatCSV      Format = "csv"
)

// UnsupportedFormatError reports a file extension no extractor handles.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension: %s", e.Ext)
}

// ErrNoContent is returned when a document yields zero paragraphs. The caller
// decides whether to skip ingesting it; it is not fatal to a batch.
var ErrNoContent = errors.New("no content extracted")

// Candidate is a raw (page, text) pair emitted by a format extractor before
// segmentation numbers and filters it.
type Candidate struct {
	Page int
	Text string
}

// Extractor converts raw file bytes into paragraph candidates for one format.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]Candidate, error)
}

var formatByExt = map[string]Format{
	".pdf":      FormatPDF,
	".png":      FormatImage,
	".jpg":      FormatImage,
	".jpeg":     FormatImage,
	".bmp":      FormatImage,
	".tiff":     FormatImage,
	".txt":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".docx":     FormatDOCX,
	".csv":      FormatCSV,
}

// FormatForFile classifies a filename by extension.
func FormatForFile(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := formatByExt[ext]; ok {
		return f, nil
	}
	return "", &UnsupportedFormatError{Ext: ext}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := FormatForFile(filename)
	return err == nil
}

// Engine runs format-aware extraction followed by segmentation. A nil OCR
// disables the optical-recognition fallback for scanned pages and images.
type Engine struct {
	log *slog.Logger
	ocr *OCR
}

func NewEngine(log *slog.Logger, ocr *OCR) *Engine {
	return &Engine{log: log, ocr: ocr}
}

func (e *Engine) extractorFor(format Format) Extractor {
	switch format {
	case FormatPDF:
		return &PDFExtractor{OCR: e.ocr, Log: e.log}
	case FormatImage:
		return &ImageExtractor{OCR: e.ocr, Log: e.log}
	case FormatText:
		return &TextExtractor{}
	case FormatMarkdown:
		return &MarkdownExtractor{}
	case FormatHTML:
		return &HTMLExtractor{}
	case FormatDOCX:
		return &DOCXExtractor{}
	case FormatCSV:
		return &CSVExtractor{}
	}
	return nil
}

// ExtractFile classifies, extracts and segments a single file. A document
// yielding zero paragraphs returns ErrNoContent.
func (e *Engine) ExtractFile(ctx context.Context, data []byte, filename string) ([]document.Paragraph, error) {
	format, err := FormatForFile(filename)
	if err != nil {
		return nil, err
	}
	candidates, err := e.extractorFor(format).Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", format, err)
	}
	paragraphs := Assemble(candidates)
	if len(paragraphs) == 0 {
		return nil, ErrNoContent
	}
	return paragraphs, nil
}
