// Package table models the wide CSV tables exchanged between pipeline
// stages: an ordered list of named columns, each an ordered list of
// optional string cells.
package table

import (
	"strings"
)

// Column is a named sequence of optional cells. A nil cell is empty.
type Column struct {
	Name  string
	Cells []*string
}

// Table is an ordered set of columns. Columns may differ in length;
// missing trailing cells read as nil.
type Table struct {
	Columns []Column
}

// Str returns a pointer to s, or nil when s is blank.
func Str(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// New creates an empty table with the given column names.
func New(names ...string) *Table {
	t := &Table{Columns: make([]Column, 0, len(names))}
	for _, name := range names {
		t.Columns = append(t.Columns, Column{Name: name})
	}
	return t
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Rows returns the length of the longest column.
func (t *Table) Rows() int {
	rows := 0
	for _, c := range t.Columns {
		if len(c.Cells) > rows {
			rows = len(c.Cells)
		}
	}
	return rows
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Cell returns the cell at (column, row), or nil when out of range.
func (c *Column) Cell(row int) *string {
	if row < 0 || row >= len(c.Cells) {
		return nil
	}
	return c.Cells[row]
}

// Values returns the non-nil cells of the column in order.
func (c *Column) Values() []string {
	values := make([]string, 0, len(c.Cells))
	for _, v := range c.Cells {
		if v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// AddColumn appends a column built from values. Blank values become nil.
func (t *Table) AddColumn(name string, values []string) {
	cells := make([]*string, len(values))
	for i, v := range values {
		cells[i] = Str(v)
	}
	t.Columns = append(t.Columns, Column{Name: name, Cells: cells})
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	return t.Map(func(_, v string) *string { return &v })
}

// Map returns a new table of the same shape with fn applied to every
// non-nil cell. Nil cells stay nil.
func (t *Table) Map(fn func(column, value string) *string) *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]*string, len(c.Cells))
		for j, v := range c.Cells {
			if v == nil {
				continue
			}
			cells[j] = fn(c.Name, *v)
		}
		out.Columns[i] = Column{Name: c.Name, Cells: cells}
	}
	return out
}

// DropEmptyRows returns a new table without the rows whose cells are nil
// in every column. Surviving rows keep their relative order.
func (t *Table) DropEmptyRows() *Table {
	rows := t.Rows()
	keep := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		for i := range t.Columns {
			if t.Columns[i].Cell(r) != nil {
				keep = append(keep, r)
				break
			}
		}
	}

	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i := range t.Columns {
		cells := make([]*string, len(keep))
		for j, r := range keep {
			cells[j] = t.Columns[i].Cell(r)
		}
		out.Columns[i] = Column{Name: t.Columns[i].Name, Cells: cells}
	}
	return out
}

// CountValues returns the number of non-nil cells across all columns.
func (t *Table) CountValues() int {
	n := 0
	for _, c := range t.Columns {
		for _, v := range c.Cells {
			if v != nil {
				n++
			}
		}
	}
	return n
}
