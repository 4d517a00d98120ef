package extract

import (
	"regexp"
	"strings"
)

var (
	jsonPairPattern   = regexp.MustCompile(`^(["'])([^"']+)(["'])(\s*:\s*)(["'])(.*)(["'])(\s*,?)$`)
	jsonScalarPattern = regexp.MustCompile(`^(["'])[^"']+(["'])\s*:\s*[^"'\s]`)
	jsonStringPattern = regexp.MustCompile(`^(["'])(.+)(["'])(\s*,?)$`)
)

// skipKeys hold identifiers, asset references and code, never prose.
var skipKeys = []string{
	"speaker", "id", "key", "name", "type", "class", "tag", "is_code",
	"code", "script", "function", "method", "variable", "path", "file",
	"icon", "image", "sound", "audio", "animation", "sprite", "texture",
}

var translatableKeys = []string{
	"message", "text", "description", "title", "label", "hint",
	"tooltip", "dialogue", "dialog", "content", "body", "value",
	"caption", "placeholder", "button", "option", "choice",
	"question", "answer", "reply", "response", "note", "warning",
	"error", "success", "info", "help", "about", "summary",
}

// jsonPairMatcher handles `"key": "value"` lines. Only values under a known
// prose key are translated; every other pair is suppressed.
type jsonPairMatcher struct {
	skip  map[string]bool
	allow map[string]bool
}

func newJSONPairMatcher(extra []string) jsonPairMatcher {
	m := jsonPairMatcher{
		skip:  make(map[string]bool, len(skipKeys)),
		allow: make(map[string]bool, len(translatableKeys)+len(extra)),
	}
	for _, k := range skipKeys {
		m.skip[k] = true
	}
	for _, k := range translatableKeys {
		m.allow[k] = true
	}
	for _, k := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && !m.skip[k] {
			m.allow[k] = true
		}
	}
	return m
}

func (jsonPairMatcher) Name() string { return DialectJSONPair }

func (j jsonPairMatcher) Match(indent, body, trailing string) (Result, bool) {
	m := jsonPairPattern.FindStringSubmatch(body)
	if m == nil || m[1] != m[3] || m[5] != m[7] {
		// A quoted key with a number, object or array value.
		if s := jsonScalarPattern.FindStringSubmatch(body); s != nil && s[1] == s[2] {
			return suppressed()
		}
		return Result{}, false
	}

	key := strings.ToLower(m[2])
	if j.skip[key] || !j.allow[key] {
		return suppressed()
	}

	return Result{
		Prefix: indent + m[1] + m[2] + m[3] + m[4] + m[5],
		Span:   m[6],
		Suffix: m[7] + m[8] + trailing,
	}, true
}

// jsonStringMatcher handles a lone quoted string, as in JSON arrays and PO
// continuation lines.
type jsonStringMatcher struct{}

func (jsonStringMatcher) Name() string { return DialectJSONString }

func (jsonStringMatcher) Match(indent, body, trailing string) (Result, bool) {
	m := jsonStringPattern.FindStringSubmatch(body)
	if m == nil || m[1] != m[3] {
		return Result{}, false
	}
	return Result{
		Prefix: indent + m[1],
		Span:   m[2],
		Suffix: m[3] + m[4] + trailing,
	}, true
}
