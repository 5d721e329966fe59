// Package normalize maps free-text activity labels to their canonical key.
// The canonical form is the grouping and equality key used everywhere else,
// so the transformation must stay deterministic and idempotent.
package normalize

import (
	"strings"
	"unicode"
)

// Canonicalize normalizes a raw activity label:
//  1. Collapse excessive rune repetition: a run of exactly 3 identical
//     runes keeps 2, a run of 4 or more keeps 1.
//  2. Split PascalCase/camelCase word boundaries with hyphens.
//  3. Lowercase, collapse whitespace and hyphen runs, trim separators.
//
// Empty input maps to the empty string; callers must reject empty canonical
// labels before storage.
func Canonicalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	collapsed := collapseRepeats(trimmed)
	hyphenated := splitCamelCase(collapsed)
	lowered := strings.ToLower(hyphenated)

	squeezed := squeezeRuns(lowered)
	return strings.Trim(squeezed, " -")
}

// collapseRepeats shortens runs of identical runes. Runs of length 1-2 are
// kept verbatim, exactly 3 collapses to 2, and 4+ collapses to 1. The
// 3-versus-4 boundary is intentional: a tripled letter usually still reads
// as a word ("workkk"), while longer runs are keyboard mashing.
func collapseRepeats(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); {
		current := runes[i]
		count := 1
		for i+count < len(runes) && runes[i+count] == current {
			count++
		}

		switch {
		case count < 3:
			for j := 0; j < count; j++ {
				b.WriteRune(current)
			}
		case count == 3:
			b.WriteRune(current)
			b.WriteRune(current)
		default:
			b.WriteRune(current)
		}

		i += count
	}
	return b.String()
}

// splitCamelCase inserts a hyphen before an uppercase rune when the
// preceding rune is lowercase, or when the preceding rune is uppercase and
// the following rune is lowercase. The second rule splits the boundary
// where an all-caps acronym transitions into a capitalized word.
func splitCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)

	for i, current := range runes {
		if i > 0 && unicode.IsUpper(current) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('-')
			}
		}
		b.WriteRune(current)
	}
	return b.String()
}

// squeezeRuns collapses whitespace runs to a single space and hyphen runs
// to a single hyphen.
func squeezeRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prevSpace, prevHyphen bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace, prevHyphen = true, false
		case r == '-':
			if !prevHyphen {
				b.WriteRune('-')
			}
			prevSpace, prevHyphen = false, true
		default:
			b.WriteRune(r)
			prevSpace, prevHyphen = false, false
		}
	}
	return b.String()
}
