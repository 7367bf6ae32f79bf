package extract

import (
	"bytes"
	"strings"

	"github.com/fumiama/go-docx"
)

// parseDOCX concatenates paragraph text in document order, then table content
// row by row: cells space-joined within a row, one row per line.
func parseDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var paragraphs, tables strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			paragraphs.WriteString(it.String())
			paragraphs.WriteString("\n")
		case *docx.Table:
			for _, row := range it.TableRows {
				cells := make([]string, 0, len(row.TableCells))
				for _, cell := range row.TableCells {
					var cellText strings.Builder
					for _, p := range cell.Paragraphs {
						cellText.WriteString(p.String())
						cellText.WriteString(" ")
					}
					cells = append(cells, strings.TrimSpace(cellText.String()))
				}
				tables.WriteString(strings.Join(cells, " "))
				tables.WriteString("\n")
			}
		}
	}

	return paragraphs.String() + tables.String(), nil
}
