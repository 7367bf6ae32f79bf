package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// parseCSV renders the table as a header line naming the columns followed by
// one labeled block per row with "column: value" pairs. The verbose layout is
// deliberate: the language model reads labeled records far better than a raw
// tabular dump.
func parseCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}

	header := records[0]

	var sb strings.Builder
	sb.WriteString("Columns: ")
	sb.WriteString(strings.Join(header, ", "))
	sb.WriteString("\n")

	for i, row := range records[1:] {
		sb.WriteString(fmt.Sprintf("Row %d:\n", i+1))
		for j, value := range row {
			name := fmt.Sprintf("column %d", j+1)
			if j < len(header) {
				name = header[j]
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", name, value))
		}
	}

	return sb.String(), nil
}
