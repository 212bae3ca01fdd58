package encode

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/featgo/similarity"
)

// projector turns string values into fixed-length similarity vectors against
// a vocabulary. Rows are memoized per distinct value, so a column with few
// distinct values costs one scorer pass per distinct value, not per row.
type projector struct {
	vocab  []string
	scorer similarity.Func
	memo   map[string][]float64
}

func newProjector(vocab []string, scorer similarity.Func) *projector {
	return &projector{
		vocab:  vocab,
		scorer: scorer,
		memo:   make(map[string][]float64),
	}
}

// row returns the similarity vector of a single value against the vocabulary.
func (p *projector) row(value string) []float64 {
	if cached, ok := p.memo[value]; ok {
		return cached
	}

	scores := make([]float64, len(p.vocab))
	for j, cat := range p.vocab {
		scores[j] = p.scorer(value, cat)
	}

	p.memo[value] = scores

	return scores
}

// project returns the (len(values), len(vocab)) similarity matrix. Rows
// flagged null become all-NaN rows instead of computed vectors.
func (p *projector) project(values []string, nulls []bool) *mat.Dense {
	dense := mat.NewDense(len(values), len(p.vocab), nil)

	for i, v := range values {
		if nulls[i] {
			for j := range p.vocab {
				dense.Set(i, j, math.NaN())
			}
			continue
		}

		dense.SetRow(i, p.row(v))
	}

	return dense
}
