// Package repetition locates the stutter artifact voice cloning sometimes
// produces: a contiguous phrase spoken twice. Given the intended text and
// the round-trip transcript of the synthesized audio, it answers where in
// the transcript the duplicated span sits.
//
// The detector assumes at most one repeated span per utterance. Two
// independent repetitions in one transcript are not disambiguated; the
// detector reports not-found rather than guessing.
package repetition

// Span marks a half-open token range [Start, End) in the transcript's
// whitespace-tokenized word sequence.
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Find compares the reference and transcript token sequences and returns
// the token span of a single duplicated phrase in the transcript, if one
// exists. Both sequences must already be normalized (case and punctuation
// handled by the caller). The second return value is false when no clean
// repetition is present; that is a defined outcome, not an error.
func Find(reference, transcript []string) (Span, bool) {
	// Words the transcript uses more often than the reference, with the
	// excess count as budget.
	budget := make(map[string]int)
	counts := make(map[string]int, len(reference))
	for _, w := range reference {
		counts[w]++
	}
	for _, w := range transcript {
		counts[w]--
	}
	k := 0
	for w, c := range counts {
		if c < 0 {
			budget[w] = -c
			k += -c
		}
	}
	if k == 0 {
		return Span{}, false
	}

	// Mask transcript positions belonging to over-represented words, then
	// take the longest contiguous run as the candidate region.
	mask := make([]bool, len(transcript))
	for i, w := range transcript {
		if budget[w] > 0 {
			mask[i] = true
		}
	}
	runStart, runEnd := longestRun(mask)
	if runEnd-runStart < 2*k {
		// A single clean repetition needs room for both the original
		// phrase and its echo. Anything shorter is malformed ASR output.
		return Span{}, false
	}

	// Slide a width-k window across the run; the repeated phrase is the
	// first window whose multiset matches the budget exactly.
	for start := runStart; start+k <= runEnd; start++ {
		if windowMatches(transcript[start:start+k], budget) {
			return Span{Start: start, End: start + k}, true
		}
	}
	return Span{}, false
}

// longestRun returns the bounds [start, end) of the longest contiguous
// true run in mask; zeros when the mask is all false.
func longestRun(mask []bool) (int, int) {
	bestStart, bestEnd := 0, 0
	start := -1
	for i := 0; i <= len(mask); i++ {
		if i < len(mask) && mask[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start > bestEnd-bestStart {
				bestStart, bestEnd = start, i
			}
			start = -1
		}
	}
	return bestStart, bestEnd
}

func windowMatches(window []string, budget map[string]int) bool {
	seen := make(map[string]int, len(budget))
	for _, w := range window {
		seen[w]++
		if seen[w] > budget[w] {
			return false
		}
	}
	return len(window) == total(budget)
}

func total(m map[string]int) int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}
