// Package extract splits a translatable line into the text a model should
// see and the structure around it, without parsing the file format.
package extract

import (
	"strings"
	"unicode"

	"line-translator/internal/placeholder"
)

// Dialect names, in matcher priority order.
const (
	DialectKeyBrace   = "key-brace"
	DialectBrace      = "brace"
	DialectJSONPair   = "json-pair"
	DialectJSONString = "json-string"
	DialectXML        = "xml"
	DialectINI        = "ini"
	DialectYAML       = "yaml"
	DialectLua        = "lua"
	DialectPO         = "po"
	DialectCSV        = "csv"
	DialectText       = "text"
)

// Result is one line split into prefix, translatable span and suffix.
// Prefix+Span+Suffix always equals the original line.
type Result struct {
	// Dialect is the name of the matcher that recognised the line.
	Dialect string
	// Prefix holds indentation and any leading structure (keys, quotes, tags).
	Prefix string
	// Span is the human text to translate; empty when nothing is translatable.
	Span string
	// Suffix holds closing structure and trailing whitespace.
	Suffix string
	// Placeholders are the tokens of Span that must survive translation.
	Placeholders []string
}

// Empty reports whether the line has nothing to translate.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Span) == ""
}

// Line reassembles the line around a (translated) span.
func (r Result) Line(span string) string {
	return r.Prefix + span + r.Suffix
}

// Matcher recognises one line dialect.
type Matcher interface {
	// Name returns the dialect name.
	Name() string
	// Match inspects body, the line without its leading indent and trailing
	// whitespace. ok=false hands the line to the next matcher. ok=true with an
	// empty Span means the structure was recognised but holds no text.
	Match(indent, body, trailing string) (res Result, ok bool)
}

// Extractor applies matchers in priority order; the first match wins.
type Extractor struct {
	matchers []Matcher
}

// Option configures an Extractor.
type Option func(*options)

type options struct {
	extraKeys []string
}

// WithTranslatableKeys adds JSON keys whose string values are translated in
// addition to the built-in allow-list.
func WithTranslatableKeys(keys ...string) Option {
	return func(o *options) {
		o.extraKeys = append(o.extraKeys, keys...)
	}
}

// New returns an Extractor with the built-in dialect matchers.
func New(opts ...Option) *Extractor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Extractor{
		matchers: []Matcher{
			keyBraceMatcher{},
			braceMatcher{},
			newJSONPairMatcher(o.extraKeys),
			jsonStringMatcher{},
			xmlMatcher{},
			iniMatcher{},
			yamlMatcher{},
			luaMatcher{},
			poMatcher{},
			csvMatcher{},
			textMatcher{},
		},
	}
}

// Dialects returns the matcher names in priority order.
func (e *Extractor) Dialects() []string {
	names := make([]string, len(e.matchers))
	for i, m := range e.matchers {
		names[i] = m.Name()
	}
	return names
}

// Extract splits line into prefix, span and suffix.
func (e *Extractor) Extract(line string) Result {
	indent, body, trailing := splitSpace(line)
	if body == "" {
		return Result{Prefix: line}
	}

	for _, m := range e.matchers {
		res, ok := m.Match(indent, body, trailing)
		if !ok {
			continue
		}
		res.Dialect = m.Name()
		if res.Empty() {
			return Result{Dialect: res.Dialect, Prefix: line}
		}
		res.Placeholders = placeholder.Extract(res.Span)
		return res
	}

	return Result{Prefix: line}
}

// splitSpace separates leading and trailing whitespace from s.
func splitSpace(s string) (lead, core, tail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	tail = core[len(trimmed):]
	return lead, trimmed, tail
}

// wrap builds a Result around value; the value's own surrounding whitespace
// moves into prefix and suffix.
func wrap(indent, before, value, after, trailing string) Result {
	lead, core, tail := splitSpace(value)
	return Result{
		Prefix: indent + before + lead,
		Span:   core,
		Suffix: tail + after + trailing,
	}
}

// suppressed reports a recognised structure with nothing to translate.
func suppressed() (Result, bool) {
	return Result{}, true
}

// unquote strips one pair of matching quotes from value.
func unquote(value string) (quote, inner string, ok bool) {
	if len(value) < 2 {
		return "", value, false
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' || first == '\'') && first == last {
		return string(first), value[1 : len(value)-1], true
	}
	return "", value, false
}
