// Package fuzzy provides approximate string matching.
//
// Used to absorb minor wording drift in model-produced labels: the
// classifier asks for one of a fixed set of category names but the model
// may answer with extra punctuation, pluralization, or a near-synonym
// spelling. ClosestMatch maps such output back onto the known set.
package fuzzy

import "strings"

// Levenshtein returns the edit distance between a and b
// (insertions, deletions, substitutions).
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// ClosestMatch returns the candidate with the smallest edit distance to s,
// comparing case-insensitively. The second return is false when candidates
// is empty or the best distance exceeds maxDistance.
func ClosestMatch(s string, candidates []string, maxDistance int) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := Levenshtein(s, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best = c
			bestDist = d
		}
	}

	if bestDist < 0 || bestDist > maxDistance {
		return "", false
	}
	return best, true
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
