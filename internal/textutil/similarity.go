package textutil

import "math"

// Score computes the fidelity of candidate against reference as
// 1 - distance/max(len), where distance is the character-level Levenshtein
// distance between the normalized strings. The result lies in [0,1] and is
// rounded to 3 decimal places. Two strings that normalize to empty are
// considered identical and score 1.0.
func Score(reference, candidate string) float64 {
	ref := []rune(Normalize(reference))
	cand := []rune(Normalize(candidate))

	longest := max(len(ref), len(cand))
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein(ref, cand)
	score := 1.0 - float64(distance)/float64(longest)
	return math.Round(score*1000) / 1000
}

// levenshtein computes edit distance with the classic two-row scan.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
