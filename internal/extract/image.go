package extract

import (
	"context"
	"log/slog"
)

// ImageExtractor recognizes a whole image as one candidate. An empty
// recognition result yields zero candidates, not an error; a recognition
// failure is logged and likewise yields zero candidates so a batch of other
// files keeps going.
type ImageExtractor struct {
	OCR *OCR
	Log *slog.Logger
}

func (p *ImageExtractor) Extract(ctx context.Context, data []byte) ([]Candidate, error) {
	if p.OCR == nil {
		p.logWarn("ocr disabled, skipping image")
		return nil, nil
	}
	text, err := p.OCR.ImageToText(ctx, data)
	if err != nil {
		p.logWarn("ocr failed, skipping image", "error", err)
		return nil, nil
	}
	if text == "" {
		return nil, nil
	}
	return []Candidate{{Page: 1, Text: text}}, nil
}

func (p *ImageExtractor) logWarn(msg string, args ...any) {
	if p.Log != nil {
		p.Log.Warn(msg, args...)
	}
}
