package frame

import (
	"fmt"
)

// Check validates that a frame is usable as transformer input: non-nil, at
// least one column and at least one row.
func Check(f *Frame) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidData)
	}

	if f.NumCols() == 0 {
		return fmt.Errorf("%w: frame has no columns", ErrInvalidData)
	}

	if f.NumRows() == 0 {
		return fmt.Errorf("%w: frame has no rows", ErrInvalidData)
	}

	return nil
}

// CheckVariables validates that every named variable is a column of the frame.
func CheckVariables(f *Frame, vars []string) error {
	for _, name := range vars {
		if !f.Has(name) {
			return &ErrColumnNotFound{Name: name}
		}
	}
	return nil
}

// CheckNumeric validates that every named variable is a numeric column.
func CheckNumeric(f *Frame, vars []string) error {
	for _, name := range vars {
		s, ok := f.Column(name)
		if !ok {
			return &ErrColumnNotFound{Name: name}
		}

		if !s.Kind().Numeric() {
			return &ErrKindMismatch{Variable: name, Kind: s.Kind(), Want: "numeric"}
		}
	}
	return nil
}

// CheckString validates that every named variable is a string column.
func CheckString(f *Frame, vars []string) error {
	for _, name := range vars {
		s, ok := f.Column(name)
		if !ok {
			return &ErrColumnNotFound{Name: name}
		}

		if s.Kind() != KindString {
			return &ErrKindMismatch{Variable: name, Kind: s.Kind(), Want: "string"}
		}
	}
	return nil
}

// CheckNoMissing validates that none of the named variables contain null
// cells.
func CheckNoMissing(f *Frame, vars []string) error {
	for _, name := range vars {
		s, ok := f.Column(name)
		if !ok {
			return &ErrColumnNotFound{Name: name}
		}

		if s.HasNulls() {
			return &ErrMissingValues{Variable: name, Count: s.NullCount()}
		}
	}
	return nil
}

// NumericNames returns the names of all numeric columns, in frame order.
func NumericNames(f *Frame) []string {
	var names []string
	for i := 0; i < f.NumCols(); i++ {
		if s := f.ColumnAt(i); s.Kind().Numeric() {
			names = append(names, s.Name())
		}
	}
	return names
}

// StringNames returns the names of all string columns, in frame order.
func StringNames(f *Frame) []string {
	var names []string
	for i := 0; i < f.NumCols(); i++ {
		if s := f.ColumnAt(i); s.Kind() == KindString {
			names = append(names, s.Name())
		}
	}
	return names
}

// Align reorders the frame's columns to match the fitted column order. The
// frame must contain exactly the fitted columns; anything missing or extra
// yields ErrSchemaMismatch. The returned frame shares the underlying series.
func Align(f *Frame, fitted []string) (*Frame, error) {
	var missing []string
	for _, name := range fitted {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}

	var extra []string
	if len(missing) > 0 || f.NumCols() != len(fitted) {
		want := make(map[string]bool, len(fitted))
		for _, name := range fitted {
			want[name] = true
		}
		for _, name := range f.Names() {
			if !want[name] {
				extra = append(extra, name)
			}
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		return nil, &ErrSchemaMismatch{Missing: missing, Extra: extra}
	}

	return f.Select(fitted...)
}
