package translation

import (
	"regexp"
	"strings"

	"line-translator/internal/textutil"
)

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// SplitChunks cuts text into pieces of at most max runes, preferring
// sentence boundaries and falling back to word boundaries. A single word
// longer than max becomes its own chunk.
func SplitChunks(text string, max int) []string {
	if max <= 0 {
		return []string{text}
	}

	var (
		chunks  []string
		current string
	)
	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
		}
		current = ""
	}

	for _, sentence := range splitSentences(text) {
		if textutil.Len(joinSpace(current, sentence)) <= max {
			current = joinSpace(current, sentence)
			continue
		}
		flush()

		if textutil.Len(sentence) <= max {
			current = sentence
			continue
		}
		for _, word := range strings.Fields(sentence) {
			if textutil.Len(joinSpace(current, word)) <= max {
				current = joinSpace(current, word)
				continue
			}
			flush()
			current = word
		}
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitSentences splits after '.', '!' or '?' followed by whitespace and
// drops the whitespace.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func joinSpace(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
