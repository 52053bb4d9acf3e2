// Package matcher implements the key comparison rules of the
// reconciliation engine: key normalization, exact and fuzzy matching,
// and deterministic best-candidate selection within a reference source.
package matcher

import (
	"strings"
)

// NormalizeKey produces the canonical string form used for all key
// comparisons: surrounding whitespace removed, a leading apostrophe
// (spreadsheet text marker) stripped, case folded, and leading zeros
// dropped from numeric-looking values so "00123" and "123" compare
// equal.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "'")
	s = strings.ToLower(s)

	if isNumericLooking(s) {
		trimmed := strings.TrimLeft(s, "0")
		if trimmed == "" {
			return "0"
		}
		return trimmed
	}
	return s
}

func isNumericLooking(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
