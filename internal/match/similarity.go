// Package match implements candidate resolution and fuzzy scoring of
// input records against the customer master table.
package match

// Similarity returns the percentage similarity of two strings based on
// Levenshtein edit distance: 100 × (1 − distance/maxLen), floored at
// zero. Two empty strings are identical (100). Callers normalize inputs
// before comparing.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100.0
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	sim := (1.0 - float64(levenshtein(ra, rb))/float64(maxLen)) * 100.0
	if sim < 0 {
		return 0
	}
	return sim
}

// levenshtein computes the classic unit-cost edit distance with two
// rolling rows instead of the full matrix.
func levenshtein(a, b []rune) int {
	n, m := len(a), len(b)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[m]
}
