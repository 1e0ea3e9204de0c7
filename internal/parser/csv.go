package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docshuffle/internal/doctree"
)

// csvBatchSize is the number of data rows per section.
const csvBatchSize = 20

// CSVParser handles CSV files. The first row names the columns; each data
// row becomes one paragraph and rows are grouped into sections.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	if len(records) == 0 {
		return tree, nil
	}

	headers := records[0]
	rows := records[1:]
	for start := 0; start < len(rows); start += csvBatchSize {
		end := min(start+csvBatchSize, len(rows))
		// Row numbers are 1-indexed and count the header line.
		section := &doctree.DocNode{Title: fmt.Sprintf("Rows %d-%d", start+2, end+1)}
		for _, row := range rows[start:end] {
			section.AddParagraph(formatRow(headers, row))
		}
		tree.Children = append(tree.Children, section)
	}
	return tree, nil
}

func formatRow(headers, row []string) string {
	var b strings.Builder
	for j, cell := range row {
		if j > 0 {
			b.WriteString(", ")
		}
		if j < len(headers) && headers[j] != "" {
			b.WriteString(headers[j] + ": ")
		}
		b.WriteString(cell)
	}
	return b.String()
}
