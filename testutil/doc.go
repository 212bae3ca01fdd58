// Package testutil provides testing utilities for Featgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random data frames with numeric and
// categorical columns, including skewed category frequencies and controlled
// missing values.
//
// # Random Column Generation
//
//	rng := testutil.NewRNG(seed)
//	fare := rng.UniformSeries("fare", 1000, 0, 120)
//	age := rng.NormalSeries("age", 1000, 35, 12)
//	city := rng.CategorySeries("city", 1000, []string{"london", "paris", "berlin"})
//
// # Skewed Categories (Power Law)
//
//	port := rng.ZipfCategorySeries("port", 1000, ports, 1.2)
//
// # Missing Values
//
//	rng.Sparsify(city, 0.1) // null out roughly 10% of rows
package testutil
