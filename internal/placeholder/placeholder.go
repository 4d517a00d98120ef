// Package placeholder finds the non-translatable tokens inside a text span
// (format specifiers, template variables, escapes, tags) and repairs a
// translation that lost some of them.
package placeholder

import (
	"regexp"
	"sort"
	"strings"
)

// Kind names a placeholder pattern class.
type Kind string

const (
	KindDoubleBrace   Kind = "double-brace"
	KindShellBrace    Kind = "shell-brace"
	KindBrace         Kind = "brace"
	KindPercentNamed  Kind = "percent-named"
	KindPrintf        Kind = "printf"
	KindShellVar      Kind = "shell-var"
	KindTag           Kind = "tag"
	KindBracket       Kind = "bracket"
	KindEscape        Kind = "escape"
	KindEntity        Kind = "entity"
	KindNumericEntity Kind = "numeric-entity"
	KindAtName        Kind = "at-name"
	KindHashName      Kind = "hash-name"
)

type class struct {
	kind Kind
	re   *regexp.Regexp
}

// classes are tried in order; an earlier class claims its spans first.
var classes = []class{
	{KindDoubleBrace, regexp.MustCompile(`\{\{[^}]+\}\}`)},          // {{name}}
	{KindShellBrace, regexp.MustCompile(`\$\{[^}]+\}`)},             // ${variable}
	{KindBrace, regexp.MustCompile(`\{[^}]+\}`)},                    // {0}, {name}
	{KindPercentNamed, regexp.MustCompile(`%\([^)]+\)[sdifx]`)},     // %(name)s
	{KindPrintf, regexp.MustCompile(`%\d*\.?\d*[sdifxXeEgGcpb%]`)},  // %s, %2d, %.2f, %%
	{KindShellVar, regexp.MustCompile(`\$[a-zA-Z_][a-zA-Z0-9_]*`)},  // $variable
	{KindTag, regexp.MustCompile(`<[^>]+>`)},                        // <b>, <color=#FF0000>, </b>
	{KindBracket, regexp.MustCompile(`\[[^\]]+\]`)},                 // [player], [color]
	{KindEscape, regexp.MustCompile(`\\[nrtv\\"'/]`)},               // \n, \t, \"
	{KindEntity, regexp.MustCompile(`&[a-zA-Z]+;`)},                 // &nbsp;
	{KindNumericEntity, regexp.MustCompile(`&#x?[0-9a-fA-F]+;`)},    // &#123;, &#xAB;
	{KindAtName, regexp.MustCompile(`@[a-zA-Z_][a-zA-Z0-9_]*`)},     // @variable
	{KindHashName, regexp.MustCompile(`#[a-zA-Z_][a-zA-Z0-9_]*#`)},  // #variable#
}

// Token is a placeholder occurrence inside a text.
type Token struct {
	Value string
	Kind  Kind
	Start int
	End   int
}

// Scan returns every placeholder occurrence in text ordered by position.
func Scan(text string) []Token {
	var tokens []Token
	for _, c := range classes {
		for _, loc := range c.re.FindAllStringIndex(text, -1) {
			if overlaps(tokens, loc[0], loc[1]) {
				continue
			}
			tokens = append(tokens, Token{
				Value: text[loc[0]:loc[1]],
				Kind:  c.kind,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Start < tokens[j].Start
	})
	return tokens
}

func overlaps(claimed []Token, start, end int) bool {
	for _, t := range claimed {
		if start < t.End && t.Start < end {
			return true
		}
	}
	return false
}

// Extract returns the placeholder literals of text in order of appearance.
// Duplicates are kept.
func Extract(text string) []string {
	tokens := Scan(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}

// IsTag reports whether p is an angle-bracket tag.
func IsTag(p string) bool {
	return strings.HasPrefix(p, "<")
}

// Restore repairs translated so that it carries the placeholders of the
// original span. When the translation already holds the same multiset of
// placeholders it is returned unchanged. Otherwise each missing occurrence
// takes the place of a foreign placeholder the model produced instead, or is
// appended at the end. Tags are never appended.
func Restore(original, translated string, placeholders []string) string {
	if len(placeholders) == 0 {
		return translated
	}

	tokens := Scan(translated)
	found := make([]string, len(tokens))
	for i, t := range tokens {
		found[i] = t.Value
	}
	if sameMultiset(found, placeholders) {
		return translated
	}

	expected := make(map[string]bool, len(placeholders))
	for _, p := range placeholders {
		expected[p] = true
	}

	var drift []Token
	for _, t := range tokens {
		if !expected[t.Value] {
			drift = append(drift, t)
		}
	}

	missing := counts(placeholders)
	for _, f := range found {
		if missing[f] > 0 {
			missing[f]--
		}
	}

	// Substitutions are applied at the drift token's own offsets so that an
	// identical literal elsewhere in the text is left alone.
	var (
		subs     []string
		appended []string
	)
	for _, p := range placeholders {
		if missing[p] == 0 {
			continue
		}
		missing[p]--

		if len(subs) < len(drift) {
			subs = append(subs, p)
			continue
		}
		if !IsTag(p) {
			appended = append(appended, p)
		}
	}

	result := translated
	for i := len(subs) - 1; i >= 0; i-- {
		t := drift[i]
		result = result[:t.Start] + subs[i] + result[t.End:]
	}
	for _, p := range appended {
		result = strings.TrimRight(result, " \t") + " " + p
	}

	return result
}

// Missing returns the distinct placeholders of original that do not appear
// among the placeholders of translated, in order of first appearance.
func Missing(original, translated string) []string {
	have := make(map[string]bool)
	for _, p := range Extract(translated) {
		have[p] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, p := range Extract(original) {
		if have[p] || seen[p] {
			continue
		}
		seen[p] = true
		missing = append(missing, p)
	}
	return missing
}

func counts(items []string) map[string]int {
	m := make(map[string]int, len(items))
	for _, it := range items {
		m[it]++
	}
	return m
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := counts(a)
	for _, it := range b {
		if m[it] == 0 {
			return false
		}
		m[it]--
	}
	return true
}
