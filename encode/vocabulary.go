package encode

import (
	"sort"

	"github.com/hupe1980/featgo/frame"
)

// RankCategories returns the distinct values of a column ranked by descending
// frequency. Values with equal counts keep their first-seen order, which makes
// the ranking fully deterministic for a given input order. A positive topK
// truncates the ranking to the topK most frequent values.
func RankCategories(values []string, topK int) []string {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values)/2)

	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if topK > 0 && len(order) > topK {
		order = order[:topK]
	}

	return order
}

// stringValues renders a column as strings plus a null mask. String cells are
// taken verbatim, other kinds use their canonical formatting.
func stringValues(col *frame.Series) ([]string, []bool) {
	n := col.Len()
	values := make([]string, n)
	nulls := make([]bool, n)

	for i := 0; i < n; i++ {
		if col.IsNull(i) {
			nulls[i] = true
			continue
		}

		if col.Kind() == frame.KindString {
			values[i] = col.StringAt(i)
		} else {
			values[i] = col.Value(i).Format()
		}
	}

	return values, nulls
}

// blockName returns the output column name for one vocabulary entry of a
// variable. The empty string entry, produced by imputed missing values, is
// rendered as "nan" to keep the name non-empty and recognizable.
func blockName(variable, category string) string {
	if category == "" {
		return variable + "_nan"
	}
	return variable + "_" + category
}
