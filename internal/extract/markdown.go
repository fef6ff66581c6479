package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor emits one candidate per top-level block using goldmark.
// Headings are skipped; section structure is not part of the retrieval unit.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(_ context.Context, data []byte) ([]Candidate, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	var candidates []Candidate
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.Heading); ok {
			continue
		}
		if t := blockText(n, data); t != "" {
			candidates = append(candidates, Candidate{Page: 1, Text: t})
		}
	}
	return candidates, nil
}

// blockText gets the text content of a goldmark AST node. Leaf blocks carry
// their raw source lines, which already cover the inline children; walking
// both would emit the text twice. Containers (lists, quotes) have no lines of
// their own, so their text comes from recursing into children.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if s := blockText(c, src); s != "" {
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String())
}
