package extract

import (
	"bytes"
	"context"
)

// TextExtractor handles plain text files: paragraphs are separated by blank
// lines, everything lands on page 1.
type TextExtractor struct{}

func (p *TextExtractor) Extract(_ context.Context, data []byte) ([]Candidate, error) {
	paragraphs, err := splitBlankLines(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(paragraphs))
	for _, para := range paragraphs {
		candidates = append(candidates, Candidate{Page: 1, Text: para})
	}
	return candidates, nil
}
