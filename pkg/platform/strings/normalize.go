package strings

import (
	"strings"
)

// Normalize lowercases s, trims it, and collapses internal runs of whitespace
// into a single space. Use it to compare free-text keys such as province names.
//
// Example:
//
//	Normalize("  Grande   Comore ")
//	// Returns: "grande comore"
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// EqualNormalized reports whether a and b are equal after Normalize.
func EqualNormalized(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// ContainsNormalized reports whether any element of values equals v after Normalize.
func ContainsNormalized(values []string, v string) bool {
	want := Normalize(v)
	for _, candidate := range values {
		if Normalize(candidate) == want {
			return true
		}
	}
	return false
}
