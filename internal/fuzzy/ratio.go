// Package fuzzy scores approximate string similarity on a 0-100 scale.
package fuzzy

import "math"

// Ratio returns 2*M / (len(a)+len(b)) scaled to 0-100, where M is the number of runes
// covered by the matching blocks of a and b. An empty argument scores 0.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return toScore(ratio(ra, rb))
}

// PartialRatio scores the shorter string against windows of the longer one. Each window
// starts where a matching block lines the two strings up and is cut at the end of the
// longer string, so a match near the end is compared against a shorter window.
// The first argument is treated as the shorter one when the lengths are equal.
// An empty argument scores 0.
func PartialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	if len(shorter) == 0 {
		return 0
	}

	best := 0.0
	for _, m := range newMatcher(shorter, longer).matchingBlocks() {
		start := max(0, m.j-m.i)
		end := min(start+len(shorter), len(longer))

		r := ratio(shorter, longer[start:end])
		if r > 0.995 {
			return 100
		}
		best = max(best, r)
	}

	return toScore(best)
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}

	matched := 0
	for _, m := range newMatcher(a, b).matchingBlocks() {
		matched += m.size
	}

	return 2 * float64(matched) / float64(total)
}

// toScore rounds half to even.
func toScore(r float64) int {
	return int(math.RoundToEven(r * 100))
}
