package extract

import (
	"strings"
	"testing"
)

func TestAssembleFiltersShortCandidates(t *testing.T) {
	paras := Assemble([]Candidate{
		{Page: 1, Text: "short"},
		{Page: 1, Text: "exactly twenty chars"}, // len == 20, still dropped
		{Page: 1, Text: "this candidate is comfortably long enough"},
	})
	if len(paras) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paras))
	}
	if paras[0].ParaNum != 1 {
		t.Errorf("surviving paragraph numbered %d, want 1", paras[0].ParaNum)
	}
}

func TestAssembleNumbersPerPage(t *testing.T) {
	long := func(s string) string { return s + strings.Repeat(" filler", 5) }
	paras := Assemble([]Candidate{
		{Page: 1, Text: long("first on page one")},
		{Page: 1, Text: long("second on page one")},
		{Page: 2, Text: long("first on page two")},
		{Page: 1, Text: long("third on page one")},
	})
	if len(paras) != 4 {
		t.Fatalf("got %d paragraphs, want 4", len(paras))
	}
	want := []struct{ page, num int }{{1, 1}, {1, 2}, {2, 1}, {1, 3}}
	for i, w := range want {
		if paras[i].Page != w.page || paras[i].ParaNum != w.num {
			t.Errorf("paragraph %d: got (page=%d, num=%d), want (page=%d, num=%d)",
				i, paras[i].Page, paras[i].ParaNum, w.page, w.num)
		}
	}
}

func TestAssembleDroppedCandidateDoesNotConsumeNumber(t *testing.T) {
	paras := Assemble([]Candidate{
		{Page: 1, Text: "a reasonably long opening paragraph here"},
		{Page: 1, Text: "tiny"},
		{Page: 1, Text: "another reasonably long closing paragraph"},
	})
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paras))
	}
	if paras[1].ParaNum != 2 {
		t.Errorf("second surviving paragraph numbered %d, want 2", paras[1].ParaNum)
	}
}

func TestAssembleClampsPage(t *testing.T) {
	paras := Assemble([]Candidate{
		{Page: 0, Text: "a candidate arriving with no page information"},
	})
	if len(paras) != 1 || paras[0].Page != 1 {
		t.Fatalf("got %+v, want single paragraph on page 1", paras)
	}
}

func TestAssembleTrimsWhitespace(t *testing.T) {
	paras := Assemble([]Candidate{
		{Page: 1, Text: "   padded but substantial paragraph text   "},
	})
	if len(paras) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paras))
	}
	if paras[0].Text != "padded but substantial paragraph text" {
		t.Errorf("text not trimmed: %q", paras[0].Text)
	}
}

func TestSplitBlankLines(t *testing.T) {
	input := "line one\nline two\n\n\nline three\n   \nline four"
	got, err := splitBlankLines(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"line one\nline two", "line three", "line four"}
	if len(got) != len(want) {
		t.Fatalf("got %d paragraphs, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
