package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVExtractor groups data rows into header-labelled batches, one candidate
// per batch, so tabular files become searchable prose-ish blocks.
type CSVExtractor struct{}

const csvBatchSize = 20

func (p *CSVExtractor) Extract(_ context.Context, data []byte) ([]Candidate, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var candidates []Candidate
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}
		candidates = append(candidates, Candidate{Page: 1, Text: text.String()})
	}
	return candidates, nil
}
