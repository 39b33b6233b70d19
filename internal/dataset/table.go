// Package dataset provides the small column-oriented table used for the
// checkpoint files.
//
// Cells are strings. An empty cell is a missing value, which is also how
// missing values are written to and read from CSV.
package dataset

import (
	"errors"
	"fmt"
)

// Missing is the value of an absent cell.
const Missing = ""

var (
	ErrRowCountMismatch = errors.New("row count mismatch")
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrUnknownColumn    = errors.New("unknown column")
)

// Table is an ordered set of named columns over rows of string cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddColumn appends a column filled with missing values. Existing columns are left untouched.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Missing)
	}
}

// AppendValues appends one row given positionally.
func (t *Table) AppendValues(values ...string) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("appending %d values to %d columns: %w", len(values), len(t.columns), ErrRowCountMismatch)
	}
	row := make([]string, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// AppendNamed appends one row from parallel name and value slices.
// Names that are not yet columns are added; columns not named stay missing.
func (t *Table) AppendNamed(names, values []string) error {
	if len(names) != len(values) {
		return fmt.Errorf("appending %d values for %d names: %w", len(values), len(names), ErrRowCountMismatch)
	}
	for _, n := range names {
		t.AddColumn(n)
	}
	row := make([]string, len(t.columns))
	for k, n := range names {
		row[t.index[n]] = values[k]
	}
	t.rows = append(t.rows, row)
	return nil
}

// Get returns the cell at row i, column name. Unknown columns read as missing.
func (t *Table) Get(i int, name string) string {
	j, ok := t.index[name]
	if !ok {
		return Missing
	}
	return t.rows[i][j]
}

// Set writes a cell, adding the column if needed.
func (t *Table) Set(i int, name string, value string) {
	t.AddColumn(name)
	t.rows[i][t.index[name]] = value
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.columns))
	copy(out, t.rows[i])
	return out
}

// Filter keeps the rows for which keep returns true and reports how many were removed.
func (t *Table) Filter(keep func(i int) bool) int {
	kept := t.rows[:0]
	removed := 0
	for i, row := range t.rows {
		if keep(i) {
			kept = append(kept, row)
		} else {
			removed++
		}
	}
	t.rows = kept
	return removed
}

// Drop removes the named columns. Names that are not columns are ignored.
func (t *Table) Drop(names ...string) {
	drop := make(map[int]bool)
	for _, n := range names {
		if j, ok := t.index[n]; ok {
			drop[j] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	columns := make([]string, 0, len(t.columns)-len(drop))
	for j, c := range t.columns {
		if !drop[j] {
			columns = append(columns, c)
		}
	}
	for i, row := range t.rows {
		kept := make([]string, 0, len(columns))
		for j, v := range row {
			if !drop[j] {
				kept = append(kept, v)
			}
		}
		t.rows[i] = kept
	}
	t.setColumns(columns)
}

// Rename renames columns according to mapping. Missing sources are ignored.
func (t *Table) Rename(mapping map[string]string) error {
	columns := t.Columns()
	for j, c := range columns {
		if to, ok := mapping[c]; ok {
			columns[j] = to
		}
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return fmt.Errorf("renaming to %q: %w", c, ErrDuplicateColumn)
		}
		seen[c] = true
	}
	t.setColumns(columns)
	return nil
}

// Select returns a new table holding only the named columns, in that order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := New(names...)
	if len(out.columns) != len(names) {
		return nil, fmt.Errorf("selecting %v: %w", names, ErrDuplicateColumn)
	}
	idx := make([]int, len(names))
	for k, n := range names {
		j, ok := t.index[n]
		if !ok {
			return nil, fmt.Errorf("selecting %q: %w", n, ErrUnknownColumn)
		}
		idx[k] = j
	}
	for _, row := range t.rows {
		sel := make([]string, len(idx))
		for k, j := range idx {
			sel[k] = row[j]
		}
		out.rows = append(out.rows, sel)
	}
	return out, nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	for _, row := range t.rows {
		out.rows = append(out.rows, append([]string(nil), row...))
	}
	return out
}

// HConcat joins two tables side by side, row i of left with row i of right.
// Both tables must have the same number of rows and disjoint columns.
func HConcat(left, right *Table) (*Table, error) {
	if left.Len() != right.Len() {
		return nil, fmt.Errorf("concatenating %d rows with %d rows: %w", left.Len(), right.Len(), ErrRowCountMismatch)
	}
	for _, c := range right.columns {
		if left.HasColumn(c) {
			return nil, fmt.Errorf("concatenating column %q: %w", c, ErrDuplicateColumn)
		}
	}

	out := New(append(left.Columns(), right.columns...)...)
	for i := range left.rows {
		row := make([]string, 0, len(out.columns))
		row = append(row, left.rows[i]...)
		row = append(row, right.rows[i]...)
		out.rows = append(out.rows, row)
	}
	return out, nil
}

func (t *Table) setColumns(columns []string) {
	t.columns = columns
	t.index = make(map[string]int, len(columns))
	for j, c := range columns {
		t.index[c] = j
	}
}
