package extract

import (
	"context"
	"strings"
	"testing"
)

func TestMarkdownExtractorSkipsHeadings(t *testing.T) {
	input := "# Title\n\nIntro paragraph with enough substance to keep.\n\n## Section\n\nSection body paragraph, also substantial enough.\n"
	ex := &MarkdownExtractor{}
	got, err := ex.Extract(context.Background(), []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %q", len(got), got)
	}
	if !strings.Contains(got[0].Text, "Intro paragraph") {
		t.Errorf("first candidate missing intro text: %q", got[0].Text)
	}
	if !strings.Contains(got[1].Text, "Section body paragraph") {
		t.Errorf("second candidate missing section text: %q", got[1].Text)
	}
	for i, c := range got {
		if strings.Contains(c.Text, "Title") || strings.Contains(c.Text, "# ") {
			t.Errorf("candidate %d contains heading text: %q", i, c.Text)
		}
		if c.Page != 1 {
			t.Errorf("candidate %d on page %d, want 1", i, c.Page)
		}
	}
}

func TestMarkdownExtractorParagraphTextExact(t *testing.T) {
	input := "Intro paragraph with enough substance to keep.\n"
	ex := &MarkdownExtractor{}
	got, err := ex.Extract(context.Background(), []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %q", len(got), got)
	}
	want := "Intro paragraph with enough substance to keep."
	if got[0].Text != want {
		t.Errorf("candidate text = %q, want %q", got[0].Text, want)
	}
}

func TestMarkdownExtractorMultilineParagraph(t *testing.T) {
	input := "First line of the paragraph\ncontinues on a second line.\n"
	ex := &MarkdownExtractor{}
	got, err := ex.Extract(context.Background(), []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %q", len(got), got)
	}
	want := "First line of the paragraph\ncontinues on a second line."
	if got[0].Text != want {
		t.Errorf("candidate text = %q, want %q", got[0].Text, want)
	}
}

func TestMarkdownExtractorListItems(t *testing.T) {
	input := "- first item in the list\n- second item in the list\n"
	ex := &MarkdownExtractor{}
	got, err := ex.Extract(context.Background(), []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %q", len(got), got)
	}
	if c := strings.Count(got[0].Text, "first item in the list"); c != 1 {
		t.Errorf("first item appears %d times, want 1: %q", c, got[0].Text)
	}
	if c := strings.Count(got[0].Text, "second item in the list"); c != 1 {
		t.Errorf("second item appears %d times, want 1: %q", c, got[0].Text)
	}
}

func TestMarkdownExtractorEmpty(t *testing.T) {
	ex := &MarkdownExtractor{}
	got, err := ex.Extract(context.Background(), []byte("# Only a heading\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0: %q", len(got), got)
	}
}
