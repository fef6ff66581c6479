package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestCSVExtractorBatchesRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,city\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "person%d,city%d\n", i, i)
	}

	ex := &CSVExtractor{}
	got, err := ex.Extract(context.Background(), []byte(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	// 25 data rows with a batch size of 20 makes two candidates.
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	for i, c := range got {
		if !strings.HasPrefix(c.Text, "Headers: name, city\n") {
			t.Errorf("candidate %d missing header prefix: %q", i, c.Text)
		}
	}
	if !strings.Contains(got[0].Text, "name: person0, city: city0") {
		t.Errorf("first batch missing labelled row: %q", got[0].Text)
	}
	if !strings.Contains(got[1].Text, "name: person24, city: city24") {
		t.Errorf("second batch missing labelled row: %q", got[1].Text)
	}
	if strings.Contains(got[1].Text, "person19,") {
		t.Errorf("second batch contains first-batch row: %q", got[1].Text)
	}
}

func TestCSVExtractorHeaderOnly(t *testing.T) {
	ex := &CSVExtractor{}
	got, err := ex.Extract(context.Background(), []byte("name,city\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
}

func TestCSVExtractorMalformed(t *testing.T) {
	ex := &CSVExtractor{}
	_, err := ex.Extract(context.Background(), []byte("a,b\n1,2,3,4\n\"unterminated"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
