package memory

import (
	"strings"

	"line-translator/internal/classify"
	"line-translator/internal/extract"
)

// Pair is a source span and its translation.
type Pair struct {
	Source string
	Target string
}

// Align pairs up the spans of an original file and its translation line by
// line. A line contributes a pair only when both sides extract in the same
// dialect with the same structure and the span actually changed.
func Align(ex *extract.Extractor, original, translated []string) []Pair {
	classifier := classify.New()
	n := min(len(original), len(translated))

	var pairs []Pair
	for i := 0; i < n; i++ {
		if classifier.Classify(original[i]) == classify.PassThrough {
			continue
		}

		src := ex.Extract(original[i])
		dst := ex.Extract(translated[i])
		if src.Empty() || dst.Empty() || src.Dialect != dst.Dialect {
			continue
		}
		if strings.TrimSpace(src.Prefix) != strings.TrimSpace(dst.Prefix) {
			continue
		}
		if src.Span == dst.Span {
			continue
		}
		pairs = append(pairs, Pair{
			Source: strings.TrimSpace(src.Span),
			Target: strings.TrimSpace(dst.Span),
		})
	}
	return pairs
}
