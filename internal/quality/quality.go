// Package quality compares a translation with its original after the fact.
// It never changes either side.
package quality

import (
	"fmt"
	"strings"

	"line-translator/internal/placeholder"
)

// Kind classifies an issue.
type Kind string

const (
	EmptyTranslation    Kind = "empty-translation"
	MissingPlaceholders Kind = "missing-placeholders"
)

// Issue is one advisory finding.
type Issue struct {
	Index   int // 0-based line index
	Kind    Kind
	Missing []string
	Message string
}

// Check reports, per line, translations left blank and placeholders of the
// original that the translation lost. Lines past the shorter input are not
// compared.
func Check(original, translated []string) []Issue {
	n := min(len(original), len(translated))

	var issues []Issue
	for i := 0; i < n; i++ {
		orig, tran := original[i], translated[i]

		if strings.TrimSpace(orig) != "" && strings.TrimSpace(tran) == "" {
			issues = append(issues, Issue{
				Index:   i,
				Kind:    EmptyTranslation,
				Message: fmt.Sprintf("Line %d: empty translation", i+1),
			})
		}

		if missing := placeholder.Missing(orig, tran); len(missing) > 0 {
			issues = append(issues, Issue{
				Index:   i,
				Kind:    MissingPlaceholders,
				Missing: missing,
				Message: fmt.Sprintf("Line %d: missing placeholders: {%s}", i+1, strings.Join(missing, ", ")),
			})
		}
	}
	return issues
}

// Summary counts issues per kind.
func Summary(issues []Issue) map[Kind]int {
	counts := make(map[Kind]int)
	for _, is := range issues {
		counts[is.Kind]++
	}
	return counts
}
