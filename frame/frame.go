// Package frame provides the column-oriented data container consumed and
// produced by the feature transformers.
//
// A Frame is an ordered collection of named, typed columns (Series) of equal
// length. Missing values are tracked per column in a roaring null mask, so a
// numeric column with gaps stays numeric instead of degrading to strings.
//
// The package also ships the validation helpers shared by the transformers
// (variable resolution, missing-value checks, schema alignment) and a CSV
// bridge for loading and storing frames.
package frame

import (
	"fmt"
)

// Frame is an ordered set of equally sized columns with unique names.
type Frame struct {
	cols   []*Series
	byName map[string]int
}

// New creates a frame from the given columns. All columns must have the same
// length, a non-empty name and no duplicate names.
func New(cols ...*Series) (*Frame, error) {
	f := &Frame{
		cols:   make([]*Series, 0, len(cols)),
		byName: make(map[string]int, len(cols)),
	}

	for _, s := range cols {
		if err := f.AppendColumn(s); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, s := range f.cols {
		names[i] = s.Name()
	}
	return names
}

// Has reports whether a column with the given name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Series, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// ColumnAt returns the column at position i.
func (f *Frame) ColumnAt(i int) *Series { return f.cols[i] }

// AppendColumn adds a column to the end of the frame.
func (f *Frame) AppendColumn(s *Series) error {
	if s == nil {
		return fmt.Errorf("%w: nil column", ErrInvalidData)
	}

	if s.Name() == "" {
		return fmt.Errorf("%w: column with empty name", ErrInvalidData)
	}

	if _, ok := f.byName[s.Name()]; ok {
		return fmt.Errorf("%w: duplicate column %q", ErrInvalidData, s.Name())
	}

	if len(f.cols) > 0 && s.Len() != f.cols[0].Len() {
		return fmt.Errorf("%w: column %q has %d rows, want %d", ErrInvalidData, s.Name(), s.Len(), f.cols[0].Len())
	}

	f.byName[s.Name()] = len(f.cols)
	f.cols = append(f.cols, s)

	return nil
}

// Select returns a new frame containing the named columns, in the given order.
// The returned frame shares the underlying series.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := &Frame{
		cols:   make([]*Series, 0, len(names)),
		byName: make(map[string]int, len(names)),
	}

	for _, name := range names {
		s, ok := f.Column(name)
		if !ok {
			return nil, &ErrColumnNotFound{Name: name}
		}

		if err := out.AppendColumn(s); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Drop returns a new frame without the named columns. Unknown names are
// rejected. The returned frame shares the underlying series.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !f.Has(name) {
			return nil, &ErrColumnNotFound{Name: name}
		}
		drop[name] = true
	}

	keep := make([]string, 0, len(f.cols))
	for _, s := range f.cols {
		if !drop[s.Name()] {
			keep = append(keep, s.Name())
		}
	}

	return f.Select(keep...)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		cols:   make([]*Series, len(f.cols)),
		byName: make(map[string]int, len(f.cols)),
	}

	for i, s := range f.cols {
		out.cols[i] = s.Clone()
		out.byName[s.Name()] = i
	}

	return out
}

// Equal reports whether two frames have identical columns in identical order.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || len(f.cols) != len(other.cols) {
		return false
	}

	for i := range f.cols {
		if !f.cols[i].Equal(other.cols[i]) {
			return false
		}
	}

	return true
}

// Field describes one column of a schema.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Schema is the ordered column layout of a frame. Transformers capture it at
// fit time and align incoming frames against it at transform time.
type Schema []Field

// Schema returns the frame's column layout.
func (f *Frame) Schema() Schema {
	schema := make(Schema, len(f.cols))
	for i, s := range f.cols {
		schema[i] = Field{Name: s.Name(), Kind: s.Kind()}
	}
	return schema
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, fld := range s {
		names[i] = fld.Name
	}
	return names
}

// Equal reports whether two schemas have identical fields in identical order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}

	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}

	return true
}
