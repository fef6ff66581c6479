package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the text layer of each page and falls back to OCR for
// pages without one. A recognition failure on a single page is logged and
// that page is skipped; remaining pages still extract.
type PDFExtractor struct {
	OCR *OCR // nil disables the OCR fallback
	Log *slog.Logger
}

func (p *PDFExtractor) Extract(ctx context.Context, data []byte) ([]Candidate, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so write to a temp file.
	// The same path feeds the rasterizer when a page needs OCR.
	tmp, err := os.CreateTemp("", "themefinder-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var candidates []Candidate
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var text string
		page := reader.Page(i)
		if !page.V.IsNull() {
			if t, err := page.GetPlainText(nil); err == nil {
				text = strings.TrimSpace(t)
			}
		}

		if text == "" && p.OCR != nil {
			recognized, err := p.OCR.PDFPageToText(ctx, tmpPath, i)
			if err != nil {
				p.logWarn("ocr failed, skipping page", "page", i, "error", err)
				continue
			}
			text = recognized
		}

		for _, line := range strings.Split(text, "\n") {
			candidates = append(candidates, Candidate{Page: i, Text: line})
		}
	}
	return candidates, nil
}

func (p *PDFExtractor) logWarn(msg string, args ...any) {
	if p.Log != nil {
		p.Log.Warn(msg, args...)
	}
}
