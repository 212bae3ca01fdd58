// Package discretise provides transformers that sort continuous variables
// into discrete intervals learned from training data.
package discretise

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/frame"
)

// Boundaries computes bins+1 interval edges of geometrically increasing width
// over the range of values.
//
// With lo = min(values) and hi = max(values), the edge increment is
// (hi-lo)^(1/bins); the interior edges are lo plus the successive powers of
// the increment. The edges are sorted ascending, which guards against
// non-monotonic float power results when hi is close to lo. The first edge is
// then overwritten with -Inf and the last with +Inf, so every real value maps
// to a bin at transform time, including values outside the fit range.
//
// A constant column (hi == lo) collapses to the single interval (-Inf, +Inf].
func Boundaries(values []float64, bins int) ([]float64, error) {
	if bins < 1 {
		return nil, &featgo.ErrInvalidConfig{Param: "bins", Value: bins, Constraint: "an integer >= 1"}
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values to discretise", frame.ErrInvalidData)
	}

	for _, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: values contain NaN", frame.ErrInvalidData)
		}
	}

	lo := floats.Min(values)
	hi := floats.Max(values)

	if hi == lo {
		return []float64{math.Inf(-1), math.Inf(1)}, nil
	}

	increment := math.Pow(hi-lo, 1.0/float64(bins))

	edges := make([]float64, 0, bins+1)
	edges = append(edges, lo)
	for i := 1; i <= bins; i++ {
		edges = append(edges, lo+math.Pow(increment, float64(i)))
	}

	sort.Float64s(edges)

	edges[0] = math.Inf(-1)
	edges[len(edges)-1] = math.Inf(1)

	// Float powers can land on the same edge twice; duplicate edges would
	// produce unreachable empty bins.
	return slices.Compact(edges), nil
}

// binIndex returns the 0-based index of the right-closed interval
// (edges[i], edges[i+1]] containing v. The outer edges are infinite, so every
// finite v maps to an index.
func binIndex(edges []float64, v float64) int {
	i := sort.SearchFloat64s(edges, v)
	if i < 1 {
		// Only -Inf input searches below the first interior edge.
		i = 1
	}
	return i - 1
}

// intervalLabel renders one interval in the usual "(lo, hi]" notation.
func intervalLabel(lo, hi float64) string {
	return "(" + strconv.FormatFloat(lo, 'g', -1, 64) + ", " + strconv.FormatFloat(hi, 'g', -1, 64) + "]"
}
