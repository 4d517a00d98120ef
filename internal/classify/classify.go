// Package classify decides line by line whether a line of a localization
// file carries human text or must be copied through verbatim.
package classify

import (
	"regexp"
	"strings"

	"line-translator/internal/textutil"
)

// Class is the verdict for one line.
type Class int

const (
	// PassThrough lines are copied to the output unchanged.
	PassThrough Class = iota
	// Translatable lines go through extraction and translation.
	Translatable
)

func (c Class) String() string {
	if c == Translatable {
		return "translatable"
	}
	return "pass-through"
}

const fenceMarker = "```"

var (
	timestampPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[,.]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[,.]\d{3}$`)
	speakerTag       = regexp.MustCompile(`^\[[A-Z_]+:\s*[^\]]+\]$`)
	collectionOpener = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*\s*=\s*[\[{]$`)
	isCodeFlag       = regexp.MustCompile(`(?i)^["']?is_code["']?\s*:\s*(true|false),?$`)
	literalValue     = regexp.MustCompile(`(?i)^["']?[a-zA-Z_]+["']?\s*:\s*(true|false|none|null|\d+),?$`)
	closingTag       = regexp.MustCompile(`^</[^>]+>$`)
	selfClosingTag   = regexp.MustCompile(`^<[^>]+/>$`)
	bareOpeningTag   = regexp.MustCompile(`^<[a-zA-Z_][^>]*>$`)
)

var structural = map[string]bool{
	"{": true, "}": true, "[": true, "]": true, ",": true,
	"};": true, "},": true, "];": true, "],": true,
	"(": true, ")": true, "):": true,
}

// Classifier carries the code-fence state across the lines of one file.
// It is not safe for concurrent use.
type Classifier struct {
	insideFence bool
}

// New returns a Classifier positioned outside any fenced block.
func New() *Classifier {
	return &Classifier{}
}

// Reset puts the classifier back outside any fenced block. Call it before
// the first line of every file.
func (c *Classifier) Reset() {
	c.insideFence = false
}

// InsideFence reports whether the last classified line left a fence open.
func (c *Classifier) InsideFence() bool {
	return c.insideFence
}

// Classify returns the class of line and updates the fence state when the
// line is a fence marker.
func (c *Classifier) Classify(line string) Class {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, fenceMarker) {
		c.insideFence = !c.insideFence
		return PassThrough
	}
	if c.insideFence {
		return PassThrough
	}
	if trimmed == "" || IsTimestamp(trimmed) || IsCodeLine(trimmed) {
		return PassThrough
	}
	return Translatable
}

// IsTimestamp reports whether line is a subtitle timing line such as
// "00:00:01,000 --> 00:00:04,500".
func IsTimestamp(line string) bool {
	return timestampPattern.MatchString(strings.TrimSpace(line))
}

// IsCodeLine reports whether line is structural or code-like and carries no
// human text: numbers, lone punctuation, comments, collection openers,
// literal assignments and bare XML tags.
func IsCodeLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return true
	}
	if textutil.IsDigits(s) {
		return true
	}
	if strings.HasPrefix(s, fenceMarker) {
		return true
	}
	if speakerTag.MatchString(s) {
		return true
	}
	if isComment(s) {
		return true
	}
	if structural[s] {
		return true
	}
	if collectionOpener.MatchString(s) {
		return true
	}
	if isCodeFlag.MatchString(s) || literalValue.MatchString(s) {
		return true
	}
	if closingTag.MatchString(s) || selfClosingTag.MatchString(s) {
		return true
	}
	return bareOpeningTag.MatchString(s)
}

func isComment(s string) bool {
	switch {
	case strings.HasPrefix(s, "//"), strings.HasPrefix(s, "/*"), strings.HasPrefix(s, "*/"):
		return true
	case strings.HasPrefix(s, "#") && !strings.HasPrefix(s, "##"):
		return true
	case strings.HasPrefix(s, "--") && !strings.HasPrefix(s, "---"):
		return true
	case strings.HasPrefix(s, ";"), strings.HasPrefix(s, "<!--"), strings.HasPrefix(s, "-->"):
		return true
	}
	return false
}
