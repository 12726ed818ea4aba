package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// ExportCSV renders the document's populated region as CSV in row-major
// order. Cells are emitted up to the bounding box of non-empty content, so a
// mostly blank grid does not produce thousands of empty rows. Quoting of
// commas, quotes and newlines follows RFC 4180.
func ExportCSV(doc *Document) ([]byte, error) {
	maxRow, maxCol := usedBounds(doc)
	if maxRow < 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	record := make([]string, maxCol+1)
	for row := 0; row <= maxRow; row++ {
		for col := 0; col <= maxCol; col++ {
			record[col] = doc.Cells.Get(row, col)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", row, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// usedBounds returns the largest populated row and column indexes, clamped to
// the document's declared grid size. Returns (-1, -1) for an empty document.
func usedBounds(doc *Document) (int, int) {
	maxRow, maxCol := -1, -1
	for key, value := range doc.Cells {
		if value == "" {
			continue
		}
		row, col, ok := parseCellKey(key)
		if !ok {
			continue
		}
		if doc.RowCount > 0 && row >= doc.RowCount {
			continue
		}
		if doc.ColCount > 0 && col >= doc.ColCount {
			continue
		}
		if row > maxRow {
			maxRow = row
		}
		if col > maxCol {
			maxCol = col
		}
	}
	return maxRow, maxCol
}

func parseCellKey(key string) (int, int, bool) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil || row < 0 {
		return 0, 0, false
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}
