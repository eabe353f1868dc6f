package core

import (
	"fmt"
	"strings"
)

// UniqueColumns returns a batch hook that flags records whose combined values
// for columns repeat an earlier record. The first occurrence stays valid.
// Records where any of the columns failed or is empty are not compared.
func UniqueColumns(columns ...string) BatchHook {
	return func(records []*Record) {
		firstRow := make(map[string]int, len(records))

		for _, rec := range records {
			key, ok := uniqueKey(rec, columns)
			if !ok {
				continue
			}
			if row, dup := firstRow[key]; dup {
				rec.AddError(columns[0], fmt.Sprintf("duplicate of row %d (%s)", row, strings.Join(columns, ", ")))
				continue
			}
			firstRow[key] = rec.Row()
		}
	}
}

func uniqueKey(rec *Record, columns []string) (string, bool) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		v, ok := rec.Get(col)
		if !ok || v == nil {
			return "", false
		}
		text := strings.ToLower(CellText(v))
		if text == "" {
			return "", false
		}
		parts[i] = text
	}
	return strings.Join(parts, "\x1f"), true
}
