package extract

import "regexp"

var xmlElementPattern = regexp.MustCompile(`^(<[^>]+>)(.+)(</[^>]+>)$`)

// xmlMatcher handles a single-line element such as
// `<string name="greeting">Hello</string>`.
type xmlMatcher struct{}

func (xmlMatcher) Name() string { return DialectXML }

func (xmlMatcher) Match(indent, body, trailing string) (Result, bool) {
	m := xmlElementPattern.FindStringSubmatch(body)
	if m == nil {
		return Result{}, false
	}
	return Result{
		Prefix: indent + m[1],
		Span:   m[2],
		Suffix: m[3] + trailing,
	}, true
}
