package matcher

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Exact reports whether two key values are equal after normalization.
func Exact(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}

// Similarity returns an edit-distance similarity in [0,1] between the
// normalized forms of a and b. Identical strings score 1; strings with
// nothing in common score 0.
func Similarity(a, b string) float64 {
	na, nb := NormalizeKey(a), NormalizeKey(b)
	if na == nb {
		return 1.0
	}

	ra, rb := []rune(na), []rune(nb)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return 1.0 - float64(distance)/float64(longest)
}

// Fuzzy reports whether a and b are similar at or above threshold,
// returning the score either way.
func Fuzzy(a, b string, threshold float64) (bool, float64) {
	score := Similarity(a, b)
	return score >= threshold, score
}
