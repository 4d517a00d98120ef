// Package glossary holds fixed source→target term mappings that are injected
// into translation prompts when a line mentions them.
package glossary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the glossary file looked up in the working directory.
const DefaultFile = "glossary.json"

// Term is one glossary entry.
type Term struct {
	Source   string
	Target   string
	Category string
}

// Glossary is an immutable set of terms keyed by lower-cased source.
type Glossary struct {
	terms map[string]Term
}

var defaultTerms = map[string]string{
	"quest":      "квест",
	"skill":      "навичка",
	"level":      "рівень",
	"boss":       "бос",
	"health":     "здоров'я",
	"mana":       "мана",
	"stamina":    "витривалість",
	"experience": "досвід",
	"inventory":  "інвентар",
	"armor":      "броня",
	"weapon":     "зброя",
	"spell":      "закляття",
	"dungeon":    "підземелля",
	"loot":       "здобич",
	"NPC":        "НПС",
	"respawn":    "відродження",
	"save":       "збереження",
	"load":       "завантаження",
	"settings":   "налаштування",
	"pause":      "пауза",
	"resume":     "продовжити",
	"exit":       "вийти",
	"start":      "почати",
	"continue":   "продовжити",
}

// New builds a glossary from a source→target map.
func New(pairs map[string]string) *Glossary {
	g := &Glossary{terms: make(map[string]Term, len(pairs))}
	for src, dst := range pairs {
		g.add(Term{Source: src, Target: dst})
	}
	return g
}

// FromTerms builds a glossary from a term list. Later duplicates win.
func FromTerms(terms []Term) *Glossary {
	g := &Glossary{terms: make(map[string]Term, len(terms))}
	for _, t := range terms {
		g.add(t)
	}
	return g
}

// DefaultLanguage is the target language of the built-in terms.
const DefaultLanguage = "Ukrainian"

// Default returns the built-in game-term glossary.
func Default() *Glossary {
	g := New(defaultTerms)
	for k, t := range g.terms {
		t.Category = "gaming"
		g.terms[k] = t
	}
	return g
}

func (g *Glossary) add(t Term) {
	src := strings.TrimSpace(t.Source)
	dst := strings.TrimSpace(t.Target)
	if src == "" || dst == "" {
		return
	}
	t.Source, t.Target = src, dst
	g.terms[strings.ToLower(src)] = t
}

// Len returns the number of terms.
func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.terms)
}

// Terms returns every term sorted by source.
func (g *Glossary) Terms() []Term {
	if g == nil {
		return nil
	}
	out := make([]Term, 0, len(g.terms))
	for _, t := range g.terms {
		out = append(out, t)
	}
	sortTerms(out)
	return out
}

// Relevant returns the terms whose source occurs in text as a whole word,
// ignoring case, sorted by source.
func (g *Glossary) Relevant(text string) []Term {
	if g == nil || len(g.terms) == 0 {
		return nil
	}
	words := wordSet(text)
	lower := strings.ToLower(text)

	var out []Term
	for key, t := range g.terms {
		if strings.ContainsRune(key, ' ') {
			if strings.Contains(lower, key) {
				out = append(out, t)
			}
			continue
		}
		if words[key] {
			out = append(out, t)
		}
	}
	sortTerms(out)
	return out
}

// Merge returns a glossary holding g's terms overridden by other's.
func (g *Glossary) Merge(other *Glossary) *Glossary {
	merged := &Glossary{terms: make(map[string]Term, g.Len()+other.Len())}
	for _, src := range []*Glossary{g, other} {
		if src == nil {
			continue
		}
		for k, t := range src.terms {
			merged.terms[k] = t
		}
	}
	return merged
}

// LoadFile reads a glossary from a JSON or YAML file holding a flat
// source→target object.
func LoadFile(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary %s: %w", path, err)
	}

	pairs := make(map[string]string)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pairs)
	default:
		err = json.Unmarshal(data, &pairs)
	}
	if err != nil {
		return nil, fmt.Errorf("parse glossary %s: %w", path, err)
	}
	return New(pairs), nil
}

// DefaultFor returns the built-in terms for language, or an empty glossary
// when there are none.
func DefaultFor(language string) *Glossary {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "ukrainian", "uk", "українська":
		return Default()
	}
	return New(nil)
}

// LoadOrDefault loads path when it exists and falls back to the built-in
// terms for language otherwise.
func LoadOrDefault(path, language string) (*Glossary, error) {
	if path == "" {
		return DefaultFor(language), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultFor(language), nil
	}
	return LoadFile(path)
}

// Save writes g as an indented JSON or YAML object depending on the
// extension of path.
func (g *Glossary) Save(path string) error {
	pairs := make(map[string]string, g.Len())
	for _, t := range g.Terms() {
		pairs[t.Source] = t.Target
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(pairs)
	default:
		data, err = json.MarshalIndent(pairs, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode glossary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write glossary %s: %w", path, err)
	}
	return nil
}

func sortTerms(terms []Term) {
	sort.Slice(terms, func(i, j int) bool {
		return strings.ToLower(terms[i].Source) < strings.ToLower(terms[j].Source)
	})
}

func wordSet(text string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r == '\'' || r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.Trim(w, "'-_")] = true
	}
	return set
}
