package extract

import (
	"bufio"
	"io"
	"strings"

	"themefinder/internal/document"
)

// MinParagraphLen is the post-extraction filter: candidates at or below this
// length are discarded before numbering.
const MinParagraphLen = 20

// Assemble converts raw candidates into numbered paragraph records.
// Candidate order is preserved; para_num counts consecutively within each
// page, starting at 1. Candidates with trimmed length <= MinParagraphLen are
// dropped and do not consume a number.
func Assemble(candidates []Candidate) []document.Paragraph {
	counts := make(map[int]int)
	var out []document.Paragraph
	for _, c := range candidates {
		text := strings.TrimSpace(c.Text)
		if len(text) <= MinParagraphLen {
			continue
		}
		page := c.Page
		if page < 1 {
			page = 1
		}
		counts[page]++
		out = append(out, document.Paragraph{
			Page:    page,
			ParaNum: counts[page],
			Text:    text,
		})
	}
	return out
}

// splitBlankLines splits input into paragraph strings on blank-line
// boundaries. Lines containing only whitespace count as blank.
func splitBlankLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}
