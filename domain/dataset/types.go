package dataset

import "strings"

// Value is one raw cell of a column. Cells arrive as text from the parsing
// collaborator; typed interpretation happens later in the classifier.
type Value struct {
	Raw     string `json:"raw"`
	Missing bool   `json:"missing"`
}

// NewValue creates a present value
func NewValue(raw string) Value {
	return Value{Raw: raw}
}

// MissingValue creates a missing cell
func MissingValue() Value {
	return Value{Missing: true}
}

// missingTokens mirrors the NA markers the upstream CSV/Excel decoders map
// to null cells.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"nan":  {},
	"none": {},
}

// ParseCell converts a raw text cell into a Value, mapping the conventional
// NA markers to missing.
func ParseCell(raw string) Value {
	if _, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return MissingValue()
	}
	return NewValue(raw)
}

// Column is a named, ordered sequence of raw values belonging to one
// Dataset. Immutable once read from source.
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// NullCount returns the number of missing cells
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// NonMissing returns the raw text of all present cells, in order
func (c *Column) NonMissing() []string {
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Missing {
			out = append(out, v.Raw)
		}
	}
	return out
}

// UniqueCount returns the number of distinct present values
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if !v.Missing {
			seen[v.Raw] = struct{}{}
		}
	}
	return len(seen)
}

// Dataset is an ordered collection of named columns with a consistent
// length across columns.
type Dataset struct {
	Columns []Column `json:"columns"`
}

// FromRows builds a Dataset from a header and row-major cells. Short rows
// are padded with missing values so all columns share one length.
func FromRows(header []string, rows [][]string) *Dataset {
	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: strings.TrimSpace(name), Values: make([]Value, len(rows))}
	}
	for r, row := range rows {
		for i := range cols {
			if i < len(row) {
				cols[i].Values[r] = ParseCell(row[i])
			} else {
				cols[i].Values[r] = MissingValue()
			}
		}
	}
	return &Dataset{Columns: cols}
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// ColumnNames returns column names in dataset order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// Row returns the raw cells of one row across all columns
func (d *Dataset) Row(idx int) []Value {
	row := make([]Value, len(d.Columns))
	for i := range d.Columns {
		row[i] = d.Columns[i].Values[idx]
	}
	return row
}
