package models

import (
	"fmt"
)

// Record is one normalized row from a source file: an ordered mapping
// from column name to coerced value, tagged with the file it came from
// and its original row index. Records are immutable once built.
type Record struct {
	source  string
	row     int
	columns []string
	values  map[string]Value
}

// NewRecord builds a Record. The columns slice fixes iteration order;
// values not present in it are ignored.
func NewRecord(source string, row int, columns []string, values map[string]Value) *Record {
	cols := make([]string, len(columns))
	copy(cols, columns)

	vals := make(map[string]Value, len(cols))
	for _, c := range cols {
		if v, ok := values[c]; ok {
			vals[c] = v
		} else {
			vals[c] = EmptyValue()
		}
	}

	return &Record{
		source:  source,
		row:     row,
		columns: cols,
		values:  vals,
	}
}

// Source returns the identity of the file the record came from.
func (r *Record) Source() string {
	return r.source
}

// Row returns the record's original row index within its file.
// Indexing starts at zero for the first data row under the header.
func (r *Record) Row() int {
	return r.row
}

// Columns returns the record's column names in file order.
func (r *Record) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Get returns the value for a column and whether the column exists.
func (r *Record) Get(column string) (Value, bool) {
	v, ok := r.values[column]
	return v, ok
}

// HasColumn reports whether the record carries the given column.
func (r *Record) HasColumn(column string) bool {
	_, ok := r.values[column]
	return ok
}

func (r *Record) String() string {
	return fmt.Sprintf("Record{source: %s, row: %d, columns: %d}", r.source, r.row, len(r.columns))
}
