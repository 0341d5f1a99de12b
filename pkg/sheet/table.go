// Package sheet holds the lead table in memory and moves it to and from
// .xlsx and .csv files.
package sheet

import (
	"fmt"
	"strings"
)

// Table is a header row plus data rows of text cells.
// Every row is kept exactly as wide as Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// New builds a table and pads or trims rows to the header width.
func New(headers []string, rows [][]string) *Table {
	t := &Table{Headers: append([]string{}, headers...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(headers)))
	}
	return t
}

func fit(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Cell returns the cell at row/column name, "" when the column is absent.
func (t *Table) Cell(row int, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 {
		return ""
	}
	return t.Rows[row][i]
}

// SetCell writes one cell of an existing column.
func (t *Table) SetCell(row int, name, value string) error {
	i := t.ColumnIndex(name)
	if i < 0 {
		return fmt.Errorf("column %q not found", name)
	}
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	t.Rows[row][i] = value
	return nil
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, true
}

// DropColumns removes every column whose header is in names.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	keep := make([]int, 0, len(t.Headers))
	for i, h := range t.Headers {
		if !drop[strings.TrimSpace(h)] {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Headers) {
		return
	}
	t.Headers = pick(t.Headers, keep)
	for r, row := range t.Rows {
		t.Rows[r] = pick(row, keep)
	}
}

func pick(row []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = row[j]
	}
	return out
}

// InsertColumn places a new column at position at (0..width).
func (t *Table) InsertColumn(at int, name string, values []string) error {
	if at < 0 || at > len(t.Headers) {
		return fmt.Errorf("insert %q: position %d out of range", name, at)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("insert %q: %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Headers = insertAt(t.Headers, at, name)
	for r := range t.Rows {
		t.Rows[r] = insertAt(t.Rows[r], at, values[r])
	}
	return nil
}

func insertAt(s []string, at int, v string) []string {
	s = append(s, "")
	copy(s[at+1:], s[at:])
	s[at] = v
	return s
}

// SetColumn overwrites the named column, appending it when absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("set %q: %d values for %d rows", name, len(values), len(t.Rows))
	}
	i := t.ColumnIndex(name)
	if i < 0 {
		return t.InsertColumn(len(t.Headers), name, values)
	}
	for r := range t.Rows {
		t.Rows[r][i] = values[r]
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return New(t.Headers, t.Rows)
}
