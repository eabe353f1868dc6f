package workbook

// Sheet is an in-memory Worksheet. It is also a single-sheet Workbook, which
// makes it convenient for feeding rows that did not come from a file.
type Sheet struct {
	SheetName string
	Rows      [][]any
}

// NewSheet creates an in-memory sheet from rows of raw cell values.
func NewSheet(name string, rows ...[]any) *Sheet {
	return &Sheet{SheetName: name, Rows: rows}
}

func (s *Sheet) Name() string  { return s.SheetName }
func (s *Sheet) RowCount() int { return len(s.Rows) }

func (s *Sheet) Row(n int) []any {
	if n < 0 || n >= len(s.Rows) {
		return nil
	}
	return s.Rows[n]
}

func (s *Sheet) Worksheet(index int) (Worksheet, error) {
	if index != 0 {
		return nil, sheetIndexError(index, 1)
	}
	return s, nil
}

func (s *Sheet) SheetCount() int { return 1 }
func (s *Sheet) Close() error    { return nil }

// Book is an in-memory multi-sheet Workbook.
type Book []*Sheet

func (b Book) Worksheet(index int) (Worksheet, error) {
	if index < 0 || index >= len(b) {
		return nil, sheetIndexError(index, len(b))
	}
	return b[index], nil
}

func (b Book) SheetCount() int { return len(b) }
func (b Book) Close() error    { return nil }
