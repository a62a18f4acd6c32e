// Package table holds the in-memory relation model the consolidation
// engine operates on: ordered named columns of positionally aligned
// cells, where a cell is Null, Text, or an exact decimal Number.
package table

import "fmt"

// Keys names the identifying columns of a study's extracts.
// Primary is required in every table the engine accepts; Secondary is
// present only in visit-granular tables.
type Keys struct {
	Primary   string
	Secondary string
}

// PPMIKeys is the key configuration for PPMI-style extracts.
var PPMIKeys = Keys{Primary: "PATNO", Secondary: "EVENT_ID"}

// Column is a named sequence of cells. Cells across the columns of a
// Table are positionally aligned into rows.
type Column struct {
	Name  string
	Cells []Value
}

// Table is an ordered sequence of equal-length named columns.
//
// Tables flow forward through the consolidation pipeline as owned
// values: no operation mutates a table it was handed. Derivation
// helpers (WithColumn, Renamed, ...) return fresh tables sharing
// unmodified column slices.
type Table struct {
	cols   []Column
	byName map[string]int
}

// New creates a table from columns. All columns must have the same
// length and unique names.
func New(cols ...Column) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is New for static test fixtures; panics on invalid input.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) append(c Column) error {
	if _, dup := t.byName[c.Name]; dup {
		return fmt.Errorf("table: duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && len(c.Cells) != t.NumRows() {
		return fmt.Errorf("table: column %q has %d cells, want %d", c.Name, len(c.Cells), t.NumRows())
	}
	t.byName[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// NumRows returns the row count. An empty table has zero rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return t.NumRows() == 0 || t.NumCols() == 0
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.byName[name]
	return ok
}

// Cell returns the value at (column, row). Missing columns and
// out-of-range rows read as Null.
func (t *Table) Cell(name string, row int) Value {
	i, ok := t.byName[name]
	if !ok || row < 0 || row >= t.NumRows() {
		return Null{}
	}
	v := t.cols[i].Cells[row]
	if v == nil {
		return Null{}
	}
	return v
}

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// WithColumn returns a new table with an extra column appended.
func (t *Table) WithColumn(c Column) (*Table, error) {
	out := &Table{byName: make(map[string]int, len(t.cols)+1)}
	for _, existing := range t.cols {
		if err := out.append(existing); err != nil {
			return nil, err
		}
	}
	if err := out.append(c); err != nil {
		return nil, err
	}
	return out, nil
}

// Renamed returns a new table with columns renamed per the mapping.
// Columns absent from the mapping keep their names.
func (t *Table) Renamed(mapping map[string]string) (*Table, error) {
	out := &Table{byName: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		name := c.Name
		if renamed, ok := mapping[name]; ok {
			name = renamed
		}
		if err := out.append(Column{Name: name, Cells: c.Cells}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Select returns a new table holding only the named columns, in the
// given order. Unknown names are an error.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{byName: make(map[string]int, len(names))}
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("table: no column %q", name)
		}
		if err := out.append(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Row returns the row's values in column order.
func (t *Table) Row(row int) []Value {
	out := make([]Value, len(t.cols))
	for i, c := range t.cols {
		v := c.Cells[row]
		if v == nil {
			v = Null{}
		}
		out[i] = v
	}
	return out
}

// KeyColumns returns the key column names this table actually carries,
// primary first. A table without the primary key returns nil.
func (t *Table) KeyColumns(keys Keys) []string {
	if !t.HasColumn(keys.Primary) {
		return nil
	}
	out := []string{keys.Primary}
	if keys.Secondary != "" && t.HasColumn(keys.Secondary) {
		out = append(out, keys.Secondary)
	}
	return out
}

// KeyTuple renders the row's key values for grouping and indexing.
// Tuples render through Render so "042" and 42 stay distinct.
func (t *Table) KeyTuple(keyCols []string, row int) string {
	// \x1f (unit separator) cannot appear in CSV cell boundaries the
	// loaders produce, so it is a safe tuple delimiter.
	tuple := ""
	for i, name := range keyCols {
		if i > 0 {
			tuple += "\x1f"
		}
		tuple += Render(t.Cell(name, row))
	}
	return tuple
}
