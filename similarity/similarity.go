// Package similarity provides string similarity scorers for the categorical
// encoder.
//
// Every scorer is a pure function mapping a pair of strings to a score in
// [0, 1], with 1 meaning identical. Scores are symmetric and compare Unicode
// code points, not bytes.
package similarity

import (
	"strings"
)

// Func scores the similarity of two strings in [0, 1].
type Func func(a, b string) float64

// QuickRatio returns an upper bound on Ratio computed from character
// multisets: twice the size of the multiset intersection divided by the total
// number of characters. Two empty strings score 1.
//
// This is the default scorer of the encoder. It ignores character order, which
// makes it cheap and stable for short categorical values.
func QuickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	length := len(ra) + len(rb)
	if length == 0 {
		return 1.0
	}

	counts := make(map[rune]int, len(rb))
	for _, r := range rb {
		counts[r]++
	}

	matches := 0
	for _, r := range ra {
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}

	return 2.0 * float64(matches) / float64(length)
}

// Ratio returns the Ratcliff/Obershelp similarity: twice the number of
// matching characters divided by the total number of characters, where
// matches are found by recursively locating the longest common block. Two
// empty strings score 1.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	length := len(ra) + len(rb)
	if length == 0 {
		return 1.0
	}

	return 2.0 * float64(matchingSize(ra, rb)) / float64(length)
}

type span struct {
	alo, ahi, blo, bhi int
}

// matchingSize sums the lengths of all matching blocks: the longest common
// block is located first, then the regions to its left and right are searched
// the same way.
func matchingSize(a, b []rune) int {
	queue := []span{{0, len(a), 0, len(b)}}

	total := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b, s)
		if k == 0 {
			continue
		}

		total += k
		queue = append(queue,
			span{s.alo, i, s.blo, j},
			span{i + k, s.ahi, j + k, s.bhi},
		)
	}

	return total
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the span.
// Ties resolve to the earliest block in a, then the earliest in b.
func longestMatch(a, b []rune, s span) (besti, bestj, bestsize int) {
	besti, bestj = s.alo, s.blo

	j2len := make(map[int]int)
	for i := s.alo; i < s.ahi; i++ {
		newj2len := make(map[int]int, len(j2len))
		for j := s.blo; j < s.bhi; j++ {
			if b[j] != a[i] {
				continue
			}

			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}

// Jaccard returns the word level Jaccard similarity: the number of shared
// words divided by the number of distinct words overall. Words are separated
// by whitespace. Two strings without words score 1.
func Jaccard(a, b string) float64 {
	wordsA, wordsB := wordSet(a), wordSet(b)

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}

	union := len(wordsA) + len(wordsB) - intersection

	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// Levenshtein returns 1 minus the edit distance normalized by the longer
// string length. Two empty strings score 1.
func Levenshtein(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	return 1.0 - float64(editDistance(ra, rb))/float64(longest)
}

func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
