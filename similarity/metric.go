package similarity

import (
	"fmt"
)

// Metric identifies a built-in similarity scorer.
type Metric int

const (
	// MetricQuickRatio is the character multiset scorer. It is the default.
	MetricQuickRatio Metric = iota
	// MetricRatio is the full Ratcliff/Obershelp scorer.
	MetricRatio
	// MetricJaccard is the word level Jaccard scorer.
	MetricJaccard
	// MetricLevenshtein is the normalized edit distance scorer.
	MetricLevenshtein
)

// String returns the stable name of the metric. The name round-trips through
// ParseMetric and is used in persisted transformer state.
func (m Metric) String() string {
	switch m {
	case MetricQuickRatio:
		return "quick-ratio"
	case MetricRatio:
		return "ratio"
	case MetricJaccard:
		return "jaccard"
	case MetricLevenshtein:
		return "levenshtein"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMetric returns the metric with the given name.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "quick-ratio":
		return MetricQuickRatio, nil
	case "ratio":
		return MetricRatio, nil
	case "jaccard":
		return MetricJaccard, nil
	case "levenshtein":
		return MetricLevenshtein, nil
	default:
		return 0, fmt.Errorf("unknown similarity metric: %q", name)
	}
}

// Provider returns the scorer function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricQuickRatio:
		return QuickRatio, nil
	case MetricRatio:
		return Ratio, nil
	case MetricJaccard:
		return Jaccard, nil
	case MetricLevenshtein:
		return Levenshtein, nil
	default:
		return nil, fmt.Errorf("unsupported similarity metric: %d", m)
	}
}
