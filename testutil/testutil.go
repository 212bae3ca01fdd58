package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/featgo/frame"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// NormFloat64 returns a normally distributed float64 with mean 0 and
// standard deviation 1.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// FillNormal fills dst with normally distributed values.
func (r *RNG) FillNormal(dst []float64, mean, stddev float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = mean + r.rand.NormFloat64()*stddev
	}
}

// UniformSeries generates a float column with values in range [minVal, maxVal).
func (r *RNG) UniformSeries(name string, n int, minVal, maxVal float64) *frame.Series {
	values := make([]float64, n)
	r.FillUniformRange(values, minVal, maxVal)

	return frame.NewFloatSeries(name, values)
}

// NormalSeries generates a float column with normally distributed values.
func (r *RNG) NormalSeries(name string, n int, mean, stddev float64) *frame.Series {
	values := make([]float64, n)
	r.FillNormal(values, mean, stddev)

	return frame.NewFloatSeries(name, values)
}

// IntSeries generates an integer column with values in range [0, maxVal).
func (r *RNG) IntSeries(name string, n int, maxVal int64) *frame.Series {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]int64, n)
	for i := range values {
		values[i] = r.rand.Int63n(maxVal)
	}

	return frame.NewIntSeries(name, values)
}

// CategorySeries generates a string column with values drawn uniformly from
// categories.
func (r *RNG) CategorySeries(name string, n int, categories []string) *frame.Series {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]string, n)
	for i := range values {
		values[i] = categories[r.rand.Intn(len(categories))]
	}

	return frame.NewStringSeries(name, values)
}

// WeightedCategorySeries generates a string column where category i is drawn
// with probability proportional to weights[i].
func (r *RNG) WeightedCategorySeries(name string, n int, categories []string, weights []float64) *frame.Series {
	if len(categories) != len(weights) {
		panic(fmt.Sprintf("testutil: %d categories but %d weights", len(categories), len(weights)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, w := range weights {
		total += w
	}

	values := make([]string, n)
	for i := range values {
		u := r.rand.Float64() * total

		var cumulative float64
		idx := len(categories) - 1
		for j, w := range weights {
			cumulative += w
			if u <= cumulative {
				idx = j
				break
			}
		}

		values[i] = categories[idx]
	}

	return frame.NewStringSeries(name, values)
}

// ZipfCategorySeries generates a string column where category frequencies
// follow Zipf's law: P(k) ∝ 1/k^s. The first category is the most frequent.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
// This is how real-world categorical data is distributed (power law).
func (r *RNG) ZipfCategorySeries(name string, n int, categories []string, s float64) *frame.Series {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]string, n)
	for i := range values {
		values[i] = categories[r.zipfLocked(len(categories), s)]
	}

	return frame.NewStringSeries(name, values)
}

// Zipf returns a Zipfian-distributed value in [0, n).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Compute normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Sample from uniform and use inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// Sparsify nulls out each row of s with probability fraction.
func (r *RNG) Sparsify(s *frame.Series, fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < s.Len(); i++ {
		if r.rand.Float64() < fraction {
			s.SetNull(i)
		}
	}
}

// TrainingFrame generates a mixed frame with numeric and categorical columns,
// convenient for benchmarks and integration tests.
func (r *RNG) TrainingFrame(rows int) *frame.Frame {
	cities := []string{"london", "paris", "berlin", "madrid", "rome", "vienna", "lisbon"}

	f, err := frame.New(
		r.UniformSeries("fare", rows, 0, 120),
		r.NormalSeries("age", rows, 35, 12),
		r.ZipfCategorySeries("city", rows, cities, 1.2),
		r.WeightedCategorySeries("class", rows, []string{"third", "first", "second"}, []float64{5, 2, 3}),
	)
	if err != nil {
		panic(fmt.Sprintf("testutil: build training frame: %v", err))
	}

	return f
}
