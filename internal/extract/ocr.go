package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OCR shells out to external recognition tooling: tesseract for images and
// pdftoppm to rasterize PDF pages that carry no text layer.
type OCR struct {
	TesseractBin string
	PdftoppmBin  string
}

func NewOCR(tesseractBin, pdftoppmBin string) *OCR {
	if tesseractBin == "" {
		tesseractBin = "tesseract"
	}
	if pdftoppmBin == "" {
		pdftoppmBin = "pdftoppm"
	}
	return &OCR{TesseractBin: tesseractBin, PdftoppmBin: pdftoppmBin}
}

// ImageToText runs optical character recognition over raw image bytes.
func (o *OCR) ImageToText(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "themefinder-ocr-*.img")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	// "stdout" makes tesseract print recognized text instead of writing files.
	cmd := exec.CommandContext(ctx, o.TesseractBin, tmpPath, "stdout")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// PDFPageToText rasterizes a single PDF page and recognizes it.
func (o *OCR) PDFPageToText(ctx context.Context, pdfPath string, page int) (string, error) {
	dir, err := os.MkdirTemp("", "themefinder-raster-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, o.PdftoppmBin,
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-r", "150",
		"-png",
		pdfPath, prefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w", page, err)
	}

	matches, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm page %d: no raster produced", page)
	}
	image, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("read raster: %w", err)
	}
	return o.ImageToText(ctx, image)
}
