package excel

// RawSheet is the in-memory grid read from an uploaded workbook after the
// fixed header band has been discarded. Rows are ragged: excelize trims
// trailing empty cells, so callers index defensively.
type RawSheet struct {
	Sheet string     // source sheet name
	Rows  [][]string // data rows, header band already skipped
}

// Width returns the widest row in the sheet.
func (s *RawSheet) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the trimmed cell at (row, col), or "" when the row is
// shorter than col.
func (s *RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
