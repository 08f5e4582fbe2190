// Package strings holds the string helpers shared by list filters, criteria
// documents and configuration.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value and drops blanks and exact repeats, keeping
// first occurrences in order.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeNormalized drops blanks and values equal under Normalize, keeping the
// trimmed spelling of the first occurrence. ["Anjouan", " anjouan "] yields
// ["Anjouan"].
func DedupeNormalized(values []string) []string {
	kept := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		key := Normalize(v)
		if key == "" {
			continue
		}
		if _, dup := kept[key]; dup {
			continue
		}
		kept[key] = struct{}{}
		out = append(out, strings.TrimSpace(v))
	}
	if out == nil && values != nil {
		return []string{}
	}
	return out
}

func dedupe(values []string, key func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		k := key(v)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
