package encode

import (
	"math"
	"testing"

	"github.com/hupe1980/featgo/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectorValues(t *testing.T) {
	p := newProjector([]string{"paris"}, similarity.QuickRatio)

	dense := p.project([]string{"paris", "Paris"}, []bool{false, false})

	rows, cols := dense.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 1, cols)

	assert.InDelta(t, 1.0, dense.At(0, 0), 1e-12)
	assert.InDelta(t, 0.8, dense.At(1, 0), 1e-12)
}

func TestProjectorNullRows(t *testing.T) {
	p := newProjector([]string{"a", "b"}, similarity.QuickRatio)

	dense := p.project([]string{"a", "", "b"}, []bool{false, true, false})

	assert.True(t, math.IsNaN(dense.At(1, 0)))
	assert.True(t, math.IsNaN(dense.At(1, 1)))
	assert.Equal(t, 1.0, dense.At(0, 0))
	assert.Equal(t, 1.0, dense.At(2, 1))
}

func TestProjectorMemoisesDistinctValues(t *testing.T) {
	calls := 0
	scorer := func(a, b string) float64 {
		calls++
		return similarity.QuickRatio(a, b)
	}

	p := newProjector([]string{"apple", "orange"}, scorer)
	dense := p.project([]string{"apple", "pear", "apple", "pear", "apple"}, make([]bool, 5))

	// Two distinct values against two vocabulary entries.
	assert.Equal(t, 4, calls)

	rows, _ := dense.Dims()
	require.Equal(t, 5, rows)

	for _, i := range []int{2, 4} {
		assert.Equal(t, dense.At(0, 0), dense.At(i, 0))
		assert.Equal(t, dense.At(0, 1), dense.At(i, 1))
	}
}
