package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "float", KindFloat.String())
		assert.Equal(t, "int", KindInt.String())
		assert.Equal(t, "string", KindString.String())
		assert.Equal(t, "bool", KindBool.String())
		assert.Equal(t, "invalid", KindInvalid.String())
	})

	t.Run("Numeric", func(t *testing.T) {
		assert.True(t, KindFloat.Numeric())
		assert.True(t, KindInt.Numeric())
		assert.False(t, KindString.Numeric())
		assert.False(t, KindBool.Numeric())
	})
}

func TestSeriesNulls(t *testing.T) {
	t.Run("NaNBecomesNull", func(t *testing.T) {
		s := NewFloatSeries("x", []float64{1, math.NaN(), 3})

		assert.Equal(t, 3, s.Len())
		assert.False(t, s.IsNull(0))
		assert.True(t, s.IsNull(1))
		assert.Equal(t, 1, s.NullCount())
		assert.True(t, s.HasNulls())
	})

	t.Run("AppendNull", func(t *testing.T) {
		s := NewSeries("city", KindString)
		s.AppendString("berlin")
		s.AppendNull()
		s.AppendString("paris")

		assert.Equal(t, 3, s.Len())
		assert.True(t, s.IsNull(1))
		assert.Equal(t, "", s.StringAt(1))
		assert.Equal(t, "paris", s.StringAt(2))
	})

	t.Run("SetNull", func(t *testing.T) {
		s := NewFloatSeries("x", []float64{1, 2})
		s.SetNull(0)

		assert.True(t, s.IsNull(0))
		assert.True(t, math.IsNaN(s.FloatAt(0)))
	})

	t.Run("NoNulls", func(t *testing.T) {
		s := NewIntSeries("n", []int64{1, 2, 3})

		assert.False(t, s.HasNulls())
		assert.Equal(t, 0, s.NullCount())
	})
}

func TestSeriesAccessors(t *testing.T) {
	t.Run("FloatAtConvertsInt", func(t *testing.T) {
		s := NewIntSeries("n", []int64{7})
		assert.Equal(t, 7.0, s.FloatAt(0))
	})

	t.Run("Floats", func(t *testing.T) {
		s := NewFloatSeries("x", []float64{1.5, math.NaN(), 3})
		got := s.Floats()

		assert.Len(t, got, 3)
		assert.Equal(t, 1.5, got[0])
		assert.True(t, math.IsNaN(got[1]))
	})

	t.Run("Strings", func(t *testing.T) {
		s := NewSeries("city", KindString)
		s.AppendString("rome")
		s.AppendNull()

		assert.Equal(t, []string{"rome", ""}, s.Strings())
	})

	t.Run("Value", func(t *testing.T) {
		s := NewBoolSeries("flag", []bool{true})
		v := s.Value(0)

		assert.Equal(t, KindBool, v.Kind)
		assert.False(t, v.IsNull())
		assert.True(t, v.B)
	})
}

func TestValueFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"Float", Value{Kind: KindFloat, F64: 2.5}, "2.5"},
		{"WholeFloat", Value{Kind: KindFloat, F64: 2}, "2.0"},
		{"Exponent", Value{Kind: KindFloat, F64: 1e21}, "1e+21"},
		{"Int", Value{Kind: KindInt, I64: -3}, "-3"},
		{"String", Value{Kind: KindString, Str: "a b"}, "a b"},
		{"Bool", Value{Kind: KindBool, B: true}, "true"},
		{"Null", Value{Kind: KindFloat, Null: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Format())
		})
	}
}

func TestSeriesClone(t *testing.T) {
	s := NewFloatSeries("x", []float64{1, math.NaN()})
	clone := s.Clone()

	assert.True(t, s.Equal(clone))

	clone.AppendFloat(3)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, clone.Len())
}

func TestSeriesEqual(t *testing.T) {
	a := NewFloatSeries("x", []float64{1, math.NaN()})
	b := NewFloatSeries("x", []float64{1, math.NaN()})
	assert.True(t, a.Equal(b), "null cells should compare equal")

	c := NewFloatSeries("x", []float64{1, 2})
	assert.False(t, a.Equal(c))

	d := NewFloatSeries("y", []float64{1, math.NaN()})
	assert.False(t, a.Equal(d), "different names")
}
