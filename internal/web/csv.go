package web

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/stokpos/importer/internal/sheet"
)

// decodeCSV reads a CSV stream into sheet rows. Cells map to columns by
// position: the first cell is column A, the second B, and so on. Extra
// cells beyond the known columns are dropped.
func decodeCSV(r io.Reader) ([]sheet.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return recordsToRows(records), nil
}

// recordsToRows converts positional records into letter-keyed sheet rows.
func recordsToRows(records [][]string) []sheet.Row {
	rows := make([]sheet.Row, 0, len(records))
	for _, rec := range records {
		row := make(sheet.Row, len(rec))
		for i, cell := range rec {
			if i >= len(sheet.Columns) {
				break
			}
			row[sheet.Columns[i].Letter] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
