package extract

import (
	"regexp"
	"strings"
)

var (
	iniPattern       = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_.]*)(\s*=\s*)(.+)$`)
	yamlPattern      = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_\-]*)(\s*:\s*)(.+)$`)
	yamlOpener       = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]*\s*:$`)
	luaPattern       = regexp.MustCompile(`^(\[?["']?[^\]"']+["']?\]?\s*=\s*)(["'])(.*)(["'])(\s*,?)$`)
	poPattern        = regexp.MustCompile(`^(msgstr(?:\[\d+\])?\s+)(["'])(.*)(["'])$`)
	poSourcePattern  = regexp.MustCompile(`^(msgid|msgid_plural|msgctxt)\s+["']`)
	numericPattern   = regexp.MustCompile(`^-?\d+\.?\d*$`)
	trailingComma    = regexp.MustCompile(`\s*,$`)
	iniLiteralValues = map[string]bool{"true": true, "false": true, "yes": true, "no": true, "null": true, "none": true}
	yamlLiterals     = map[string]bool{"true": true, "false": true, "yes": true, "no": true, "null": true, "~": true}
)

// iniMatcher handles `key=value` and `key = "value"`, including properties
// and .lang files.
type iniMatcher struct{}

func (iniMatcher) Name() string { return DialectINI }

func (iniMatcher) Match(indent, body, trailing string) (Result, bool) {
	m := iniPattern.FindStringSubmatch(body)
	if m == nil {
		return Result{}, false
	}
	value := m[3]
	if numericPattern.MatchString(value) || iniLiteralValues[strings.ToLower(value)] {
		return suppressed()
	}
	return quotedValue(indent, m[1]+m[2], value, trailing), true
}

// yamlMatcher handles `key: value` mappings.
type yamlMatcher struct{}

func (yamlMatcher) Name() string { return DialectYAML }

func (yamlMatcher) Match(indent, body, trailing string) (Result, bool) {
	if yamlOpener.MatchString(body) {
		return suppressed()
	}
	m := yamlPattern.FindStringSubmatch(body)
	if m == nil {
		return Result{}, false
	}
	value := m[3]
	if strings.HasPrefix(value, "[") || strings.HasPrefix(value, "{") {
		return suppressed()
	}
	res := quotedValue(indent, m[1]+m[2], value, trailing)
	if numericPattern.MatchString(res.Span) || yamlLiterals[strings.ToLower(res.Span)] {
		return suppressed()
	}
	return res, true
}

// luaMatcher handles `key = "value"` and `["key"] = "value",` table entries.
type luaMatcher struct{}

func (luaMatcher) Name() string { return DialectLua }

func (luaMatcher) Match(indent, body, trailing string) (Result, bool) {
	m := luaPattern.FindStringSubmatch(body)
	if m == nil || m[2] != m[4] {
		return Result{}, false
	}
	return Result{
		Prefix: indent + m[1] + m[2],
		Span:   m[3],
		Suffix: m[4] + m[5] + trailing,
	}, true
}

// poMatcher handles gettext catalogs. Only msgstr lines are translated; the
// source side of an entry is left alone. msgid, msgid_plural and msgctxt
// lines are never sent, so a fresh template whose entries all read
// `msgstr ""` has nothing to translate: fill msgstr with the source text
// first (msginit or msgen do this).
type poMatcher struct{}

func (poMatcher) Name() string { return DialectPO }

func (poMatcher) Match(indent, body, trailing string) (Result, bool) {
	if poSourcePattern.MatchString(body) {
		return suppressed()
	}
	m := poPattern.FindStringSubmatch(body)
	if m == nil || m[2] != m[4] {
		return Result{}, false
	}
	return Result{
		Prefix: indent + m[1] + m[2],
		Span:   m[3],
		Suffix: m[4] + trailing,
	}, true
}

// quotedValue splits a key/value right-hand side, keeping a surrounding pair
// of quotes and a trailing comma outside the span.
func quotedValue(indent, key, value, trailing string) Result {
	comma := trailingComma.FindString(value)
	if comma != "" {
		if quote, inner, ok := unquote(value[:len(value)-len(comma)]); ok {
			return Result{
				Prefix: indent + key + quote,
				Span:   inner,
				Suffix: quote + comma + trailing,
			}
		}
	}
	if quote, inner, ok := unquote(value); ok {
		return Result{
			Prefix: indent + key + quote,
			Span:   inner,
			Suffix: quote + trailing,
		}
	}
	return Result{
		Prefix: indent + key,
		Span:   value,
		Suffix: trailing,
	}
}
