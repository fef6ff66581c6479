package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFormatForFile(t *testing.T) {
	cases := []struct {
		filename string
		want     Format
	}{
		{"report.pdf", FormatPDF},
		{"REPORT.PDF", FormatPDF},
		{"scan.png", FormatImage},
		{"scan.jpeg", FormatImage},
		{"notes.txt", FormatText},
		{"readme.md", FormatMarkdown},
		{"readme.markdown", FormatMarkdown},
		{"page.html", FormatHTML},
		{"page.htm", FormatHTML},
		{"contract.docx", FormatDOCX},
		{"table.csv", FormatCSV},
	}
	for _, c := range cases {
		got, err := FormatForFile(c.filename)
		if err != nil {
			t.Errorf("FormatForFile(%q) error: %v", c.filename, err)
			continue
		}
		if got != c.want {
			t.Errorf("FormatForFile(%q) = %q, want %q", c.filename, got, c.want)
		}
	}
}

func TestFormatForFileUnsupported(t *testing.T) {
	_, err := FormatForFile("archive.zip")
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("got %v, want UnsupportedFormatError", err)
	}
	if ufe.Ext != ".zip" {
		t.Errorf("extension %q, want %q", ufe.Ext, ".zip")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("doc.pdf") {
		t.Error("pdf should be supported")
	}
	if IsSupportedExtension("binary.exe") {
		t.Error("exe should not be supported")
	}
	if IsSupportedExtension("no-extension") {
		t.Error("missing extension should not be supported")
	}
}

func TestExtractFileUnsupported(t *testing.T) {
	engine := NewEngine(testLogger(), nil)
	_, err := engine.ExtractFile(context.Background(), []byte("data"), "file.xyz")
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("got %v, want UnsupportedFormatError", err)
	}
}

func TestExtractFileNoContent(t *testing.T) {
	engine := NewEngine(testLogger(), nil)
	_, err := engine.ExtractFile(context.Background(), []byte("too short\n\ntiny"), "file.txt")
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("got %v, want ErrNoContent", err)
	}
}

func TestExtractFileText(t *testing.T) {
	input := "This is the opening paragraph of the sample document.\n\n" +
		"And here is the second paragraph, also long enough to keep."
	engine := NewEngine(testLogger(), nil)
	paras, err := engine.ExtractFile(context.Background(), []byte(input), "sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paras))
	}
	for i, p := range paras {
		if p.Page != 1 {
			t.Errorf("paragraph %d on page %d, want 1", i, p.Page)
		}
		if p.ParaNum != i+1 {
			t.Errorf("paragraph %d numbered %d, want %d", i, p.ParaNum, i+1)
		}
	}
}
