package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// FuzzyScore returns a 0-100 similarity score between two strings based on
// normalized Levenshtein distance. Comparison is case-insensitive and ignores
// surrounding whitespace. Identical non-empty strings score 100; if either
// side is empty after normalization the score is 0.
func FuzzyScore(a, b string) int {
	a = normalize(a)
	b = normalize(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	longest := max(len([]rune(a)), len([]rune(b)))
	score := 100 - (dist*100)/longest
	if score < 0 {
		return 0
	}
	return score
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
