package synthesis

import (
	"fmt"
	"strings"

	"themefinder/internal/document"
)

const (
	// TopK is how many hits retrieval is asked for per question.
	TopK = 15

	// contextHits bounds how many hits feed the model; contextTextLen caps
	// each excerpt so the prompt stays inside the model's input budget.
	contextHits    = 8
	contextTextLen = 500

	// citationDisplayLen is the display truncation for citation text.
	citationDisplayLen = 300

	temperature = 0.3
	maxTokens   = 1500
)

// NoDocumentsMessage is the fixed themes text when retrieval comes back
// empty. Not an error.
const NoDocumentsMessage = "No relevant documents found for your query. Please ensure documents are uploaded and indexed."

const systemPrompt = `You are an expert document analyst specializing in theme identification and synthesis.

Your task is to:
1. Answer the user's question comprehensively
2. Identify 2-4 main themes from the provided document excerpts
3. Synthesize information across documents to show relationships and patterns
4. Reference specific documents when making claims
5. Provide actionable insights where possible

Format your response with clear sections:
- **Direct Answer**: Address the specific question
- **Key Themes**: List and explain main themes found
- **Cross-Document Analysis**: Show how different documents relate
- **Summary**: Provide key takeaways`

// buildUserPrompt assembles the bounded synthesis context. Fully
// deterministic given the same hits: first contextHits entries in ranking
// order, each capped at contextTextLen, with an explicit index marker.
func buildUserPrompt(question string, hits []document.SearchHit) string {
	limit := min(contextHits, len(hits))

	var sb strings.Builder
	sb.WriteString("Based on the following document excerpts, provide a comprehensive analysis for this question:\n\n")
	fmt.Fprintf(&sb, "**Question:** %s\n\n**Document Excerpts:**", question)
	for i := 0; i < limit; i++ {
		fmt.Fprintf(&sb, "\n\n[Document %d] %s", i+1, truncateText(hits[i].Text, contextTextLen))
	}
	sb.WriteString("\n\nPlease provide a thorough theme-based analysis following the format specified in your instructions.")
	return sb.String()
}

// fallbackThemes is the designed degradation branch: it names the failure,
// reports how many citations were still retrieved, and suggests remediation.
func fallbackThemes(question string, err error, citationCount int) string {
	return fmt.Sprintf(`**Analysis Error**: Unable to generate theme analysis due to: %v

**Basic Summary**: Found %d relevant document sections that may help answer your question about: %q

**Suggestions**:
- Verify your API key is configured correctly
- Check if you have sufficient API quota
- Try rephrasing your question for better results`, err, citationCount, question)
}

// truncateText caps s at n characters, not bytes, so multi-byte text is never
// cut mid-rune.
func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
