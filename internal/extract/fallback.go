package extract

import (
	"regexp"

	"line-translator/internal/textutil"
)

var csvPattern = regexp.MustCompile(`^([^,]*,)(["'])(.+)(["'])(,.*)$`)

// csvMatcher handles a row whose second column is quoted:
// `id,"text",more`.
type csvMatcher struct{}

func (csvMatcher) Name() string { return DialectCSV }

func (csvMatcher) Match(indent, body, trailing string) (Result, bool) {
	m := csvPattern.FindStringSubmatch(body)
	if m == nil || m[2] != m[4] {
		return Result{}, false
	}
	return Result{
		Prefix: indent + m[1] + m[2],
		Span:   m[3],
		Suffix: m[4] + m[5] + trailing,
	}, true
}

// textMatcher is the fallback: the whole line when it contains a letter.
type textMatcher struct{}

func (textMatcher) Name() string { return DialectText }

func (textMatcher) Match(indent, body, trailing string) (Result, bool) {
	if !textutil.ContainsLetter(body) {
		return suppressed()
	}
	return Result{Prefix: indent, Span: body, Suffix: trailing}, true
}
