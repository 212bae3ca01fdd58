package frame

import (
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Kind identifies the element type of a Series.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindFloat represents a float64 column.
	KindFloat
	// KindInt represents an int64 column.
	KindInt
	// KindString represents a string column.
	KindString
	// KindBool represents a boolean column.
	KindBool
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Numeric returns true for float and int columns.
func (k Kind) Numeric() bool {
	return k == KindFloat || k == KindInt
}

// Value is a single typed cell of a Series.
//
// Null is orthogonal to Kind: a null float cell keeps KindFloat, so a numeric
// column with gaps stays numeric.
type Value struct {
	Kind Kind
	Null bool
	F64  float64
	I64  int64
	Str  string
	B    bool
}

// IsNull reports whether the cell holds no value.
func (v Value) IsNull() bool { return v.Null }

// Format returns the canonical string rendering of the cell.
//
// Floats keep a trailing ".0" when they have no fractional part, so a column
// written to CSV and read back keeps its kind. Null cells render as the empty
// string.
func (v Value) Format() string {
	if v.Null {
		return ""
	}

	switch v.Kind {
	case KindFloat:
		return formatFloat(v.F64)
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.B)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// Series is a named, typed column with a compact null mask.
//
// Exactly one backing slice is populated, selected by Kind. Null cells keep a
// placeholder in the backing slice (NaN for floats, zero values otherwise) and
// are tracked in a roaring bitmap.
type Series struct {
	name    string
	kind    Kind
	floats  []float64
	ints    []int64
	strings []string
	bools   []bool
	nulls   *roaring.Bitmap
}

// NewSeries creates an empty series of the given kind, ready for appending.
func NewSeries(name string, kind Kind) *Series {
	return &Series{name: name, kind: kind}
}

// NewFloatSeries creates a float series. NaN values are recorded as nulls.
func NewFloatSeries(name string, values []float64) *Series {
	s := NewSeries(name, KindFloat)
	for _, v := range values {
		s.AppendFloat(v)
	}
	return s
}

// NewIntSeries creates an int series with no nulls.
func NewIntSeries(name string, values []int64) *Series {
	s := NewSeries(name, KindInt)
	for _, v := range values {
		s.AppendInt(v)
	}
	return s
}

// NewStringSeries creates a string series with no nulls.
func NewStringSeries(name string, values []string) *Series {
	s := NewSeries(name, KindString)
	for _, v := range values {
		s.AppendString(v)
	}
	return s
}

// NewBoolSeries creates a boolean series with no nulls.
func NewBoolSeries(name string, values []bool) *Series {
	s := NewSeries(name, KindBool)
	for _, v := range values {
		s.AppendBool(v)
	}
	return s
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Kind returns the element type.
func (s *Series) Kind() Kind { return s.kind }

// Len returns the number of cells.
func (s *Series) Len() int {
	switch s.kind {
	case KindFloat:
		return len(s.floats)
	case KindInt:
		return len(s.ints)
	case KindString:
		return len(s.strings)
	case KindBool:
		return len(s.bools)
	default:
		return 0
	}
}

// AppendFloat appends a float cell. NaN is recorded as null.
func (s *Series) AppendFloat(v float64) {
	if math.IsNaN(v) {
		s.markNull(len(s.floats))
	}
	s.floats = append(s.floats, v)
}

// AppendInt appends an int cell.
func (s *Series) AppendInt(v int64) {
	s.ints = append(s.ints, v)
}

// AppendString appends a string cell.
func (s *Series) AppendString(v string) {
	s.strings = append(s.strings, v)
}

// AppendBool appends a boolean cell.
func (s *Series) AppendBool(v bool) {
	s.bools = append(s.bools, v)
}

// AppendNull appends a null cell of the series kind.
func (s *Series) AppendNull() {
	switch s.kind {
	case KindFloat:
		s.markNull(len(s.floats))
		s.floats = append(s.floats, math.NaN())
	case KindInt:
		s.markNull(len(s.ints))
		s.ints = append(s.ints, 0)
	case KindString:
		s.markNull(len(s.strings))
		s.strings = append(s.strings, "")
	case KindBool:
		s.markNull(len(s.bools))
		s.bools = append(s.bools, false)
	}
}

// SetNull marks an existing cell as null.
func (s *Series) SetNull(i int) {
	s.markNull(i)
	if s.kind == KindFloat {
		s.floats[i] = math.NaN()
	}
}

func (s *Series) markNull(i int) {
	if s.nulls == nil {
		s.nulls = roaring.New()
	}
	s.nulls.Add(uint32(i))
}

// IsNull reports whether cell i is null.
func (s *Series) IsNull(i int) bool {
	return s.nulls != nil && s.nulls.Contains(uint32(i))
}

// HasNulls reports whether the series contains any null cells.
func (s *Series) HasNulls() bool {
	return s.nulls != nil && !s.nulls.IsEmpty()
}

// NullCount returns the number of null cells.
func (s *Series) NullCount() int {
	if s.nulls == nil {
		return 0
	}
	return int(s.nulls.GetCardinality())
}

// Value returns cell i as a typed Value.
func (s *Series) Value(i int) Value {
	v := Value{Kind: s.kind, Null: s.IsNull(i)}

	switch s.kind {
	case KindFloat:
		v.F64 = s.floats[i]
	case KindInt:
		v.I64 = s.ints[i]
	case KindString:
		v.Str = s.strings[i]
	case KindBool:
		v.B = s.bools[i]
	}

	return v
}

// FloatAt returns cell i as a float64. Int cells are converted, null cells
// return NaN. It must only be called on numeric series.
func (s *Series) FloatAt(i int) float64 {
	if s.IsNull(i) {
		return math.NaN()
	}

	if s.kind == KindInt {
		return float64(s.ints[i])
	}

	return s.floats[i]
}

// StringAt returns cell i as a string. Null cells return the empty string. It
// must only be called on string series.
func (s *Series) StringAt(i int) string {
	if s.IsNull(i) {
		return ""
	}
	return s.strings[i]
}

// Floats returns a copy of the series as float64 values, with NaN in null
// cells. Int series are converted. It must only be called on numeric series.
func (s *Series) Floats() []float64 {
	n := s.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = s.FloatAt(i)
	}
	return out
}

// Strings returns a copy of the series as strings, with "" in null cells. It
// must only be called on string series.
func (s *Series) Strings() []string {
	n := s.Len()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = s.StringAt(i)
	}
	return out
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	clone := &Series{name: s.name, kind: s.kind}

	if s.floats != nil {
		clone.floats = make([]float64, len(s.floats))
		copy(clone.floats, s.floats)
	}
	if s.ints != nil {
		clone.ints = make([]int64, len(s.ints))
		copy(clone.ints, s.ints)
	}
	if s.strings != nil {
		clone.strings = make([]string, len(s.strings))
		copy(clone.strings, s.strings)
	}
	if s.bools != nil {
		clone.bools = make([]bool, len(s.bools))
		copy(clone.bools, s.bools)
	}
	if s.nulls != nil {
		clone.nulls = s.nulls.Clone()
	}

	return clone
}

// Equal reports whether two series have the same name, kind, length, null mask
// and cell values. Null cells compare equal regardless of their placeholders.
func (s *Series) Equal(other *Series) bool {
	if s.name != other.name || s.kind != other.kind || s.Len() != other.Len() {
		return false
	}

	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) != other.IsNull(i) {
			return false
		}
		if s.IsNull(i) {
			continue
		}

		switch s.kind {
		case KindFloat:
			if s.floats[i] != other.floats[i] {
				return false
			}
		case KindInt:
			if s.ints[i] != other.ints[i] {
				return false
			}
		case KindString:
			if s.strings[i] != other.strings[i] {
				return false
			}
		case KindBool:
			if s.bools[i] != other.bools[i] {
				return false
			}
		}
	}

	return true
}
