package extract

import "regexp"

var (
	keyBracePattern      = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*\s*\{)(\s.*\s)(\})$`)
	bracePattern         = regexp.MustCompile(`^(\{)(\s.*\s)(\})$`)
	keyBraceTightPattern = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*\s*\{)([^{}\s][^{}]*)(\})$`)
	braceTightPattern    = regexp.MustCompile(`^(\{)([^{}\s][^{}]*)(\})$`)
	// placeholderShaped matches brace contents such as `0`, `player` or
	// `item.name`: a template variable rather than text.
	placeholderShaped = regexp.MustCompile(`^[a-zA-Z0-9_.:]+$`)
)

// keyBraceMatcher handles engine string tables of the form `KEY { text }`
// and `KEY {text}`. Unpadded braces holding a single identifier-like token,
// as in `Welcome {player}`, are prose ending in a placeholder and are left
// to the text matcher.
type keyBraceMatcher struct{}

func (keyBraceMatcher) Name() string { return DialectKeyBrace }

func (keyBraceMatcher) Match(indent, body, trailing string) (Result, bool) {
	if m := keyBracePattern.FindStringSubmatch(body); m != nil {
		return wrap(indent, m[1], m[2], m[3], trailing), true
	}
	if m := keyBraceTightPattern.FindStringSubmatch(body); m != nil && tightText(m[2]) {
		return wrap(indent, m[1], m[2], m[3], trailing), true
	}
	return Result{}, false
}

// braceMatcher handles a bare `{ text }` or `{text}`.
type braceMatcher struct{}

func (braceMatcher) Name() string { return DialectBrace }

func (braceMatcher) Match(indent, body, trailing string) (Result, bool) {
	if m := bracePattern.FindStringSubmatch(body); m != nil {
		return wrap(indent, m[1], m[2], m[3], trailing), true
	}
	if m := braceTightPattern.FindStringSubmatch(body); m != nil && tightText(m[2]) {
		return wrap(indent, m[1], m[2], m[3], trailing), true
	}
	return Result{}, false
}

// tightText reports whether unpadded brace contents are text: not a lone
// placeholder-shaped token and not an inline object starting with a quote.
func tightText(inner string) bool {
	if placeholderShaped.MatchString(inner) {
		return false
	}
	return inner[0] != '"' && inner[0] != '\''
}
