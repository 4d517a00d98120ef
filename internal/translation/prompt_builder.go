package translation

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"line-translator/internal/glossary"
)

// Reference is a previously translated pair shown to the model as an example.
type Reference struct {
	Source     string
	Target     string
	Similarity float64
}

// PromptBuilder constructs system and user prompts for one target language.
type PromptBuilder struct {
	language string
}

// NewPromptBuilder creates a prompt builder for language, e.g. "Ukrainian".
func NewPromptBuilder(language string) *PromptBuilder {
	if strings.TrimSpace(language) == "" {
		language = "Ukrainian"
	}
	return &PromptBuilder{language: language}
}

// Language returns the target language name.
func (pb *PromptBuilder) Language() string {
	return pb.language
}

var ukrainianRules = heredoc.Doc(`
	- Use correct Ukrainian grammar: cases, genders, verb forms
	- Use natural Ukrainian: 'є' not 'являється', 'треба' not 'необхідно'
	- Gaming terms: quest→квест, skill→навичка, level→рівень, boss→бос
	- Names: Michael→Майкл, John→Джон, James→Джеймс
`)

// SystemPrompt returns the prompt for a single line. Placeholders are listed
// once each; glossary terms and reference translations are appended when
// present.
func (pb *PromptBuilder) SystemPrompt(placeholders []string, terms []glossary.Term, refs []Reference) string {
	var sb strings.Builder

	sb.WriteString(heredoc.Docf(`
		You are a translator. Translate the text to %s. Output ONLY the translation, nothing else. No comments, no explanations, no 'I understand', no 'Ready to work' - ONLY the translated text.

		RULES:
		- Keep all placeholders unchanged: {0}, {name}, %%s, %%d, $var, <tag>, [var], \n
	`, pb.language))
	if strings.EqualFold(pb.language, "ukrainian") {
		sb.WriteString(ukrainianRules)
	}

	if len(placeholders) > 0 {
		fmt.Fprintf(&sb, "\nWARNING! The text contains special codes/placeholders that MUST be kept EXACTLY as they are: %s\n",
			strings.Join(unique(placeholders), ", "))
	}

	if len(terms) > 0 {
		sb.WriteString("\nGlossary (always use these translations):\n")
		for _, t := range terms {
			fmt.Fprintf(&sb, "• %s → %s\n", t.Source, t.Target)
		}
	}

	if len(refs) > 0 {
		sb.WriteString("\nReference translations of similar lines:\n")
		for _, r := range refs {
			fmt.Fprintf(&sb, "• %s → %s\n", r.Source, r.Target)
		}
	}

	fmt.Fprintf(&sb, "\nIMPORTANT: Your response must contain ONLY the %s translation. "+
		"If you output anything other than the translation, you have failed.", pb.language)

	return sb.String()
}

// ChunkSystemPrompt returns the reduced prompt used for the pieces of an
// oversized line.
func (pb *PromptBuilder) ChunkSystemPrompt() string {
	return fmt.Sprintf("Translate to %s. Output ONLY the translation, nothing else. "+
		`Keep placeholders: {0}, %%s, <tag>, [var], $var, \n unchanged.`, pb.language)
}

// UserPrompt wraps the text to translate.
func (pb *PromptBuilder) UserPrompt(text string) string {
	return fmt.Sprintf("Translate to %s: %s", pb.language, text)
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
