package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"line-translator/internal/glossary"
	"line-translator/internal/llm"
	"line-translator/internal/textutil"
)

const (
	// DefaultMaxChars is the size above which a line is translated in chunks.
	DefaultMaxChars = 2000
	// MinChunkChars is the smallest chunk size re-chunking will go down to.
	MinChunkChars = 100
	// DefaultChunkPause separates consecutive chunk calls.
	DefaultChunkPause = 300 * time.Millisecond
	// DefaultTemperature is the sampling temperature for every call.
	DefaultTemperature = 0.3
)

// Sleeper waits for d, returning early with ctx's error when ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-clock Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TermSource supplies the glossary terms relevant to a text.
type TermSource interface {
	Relevant(text string) []glossary.Term
}

// ReferenceSource supplies similar, already translated lines.
type ReferenceSource interface {
	References(ctx context.Context, text string) ([]Reference, error)
}

// Options configures a Translator.
type Options struct {
	Model       string
	Temperature float64
	ChunkPause  time.Duration
	Sleep       Sleeper
	Notify      func(string)
	Terms       TermSource
	References  ReferenceSource
}

// Translator performs single translation calls and splits oversized text
// into chunks.
type Translator struct {
	completer llm.Completer
	prompts   *PromptBuilder
	opts      Options
}

// NewTranslator creates a Translator on top of completer.
func NewTranslator(completer llm.Completer, prompts *PromptBuilder, opts Options) *Translator {
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.Notify == nil {
		opts.Notify = func(string) {}
	}
	if opts.ChunkPause < 0 {
		opts.ChunkPause = 0
	}
	return &Translator{completer: completer, prompts: prompts, opts: opts}
}

// Translate translates text with one call, or chunk by chunk when text is
// longer than maxChars runes. Backend errors of the single call are returned
// for the caller to classify. A reply that looks like chat instead of a
// translation is discarded and text is returned unchanged.
func (t *Translator) Translate(ctx context.Context, text string, placeholders []string, maxChars int) (string, error) {
	n := textutil.Len(text)
	if maxChars > 0 && n > maxChars {
		return t.TranslateChunks(ctx, text, maxChars), nil
	}

	var terms []glossary.Term
	if t.opts.Terms != nil {
		terms = t.opts.Terms.Relevant(text)
	}

	out, err := t.completer.Complete(ctx, llm.Request{
		System:      t.prompts.SystemPrompt(placeholders, terms, t.references(ctx, text)),
		User:        t.prompts.UserPrompt(text),
		Model:       t.opts.Model,
		Temperature: t.opts.Temperature,
		MaxTokens:   min(n*3+100, 4000),
	})
	if err != nil {
		return "", err
	}

	if rejected(text, out) {
		log.Debug().Str("reply", textutil.Truncate(out, 80)).Msg("Discarding non-translation reply")
		return text, nil
	}
	return out, nil
}

// TranslateChunks splits text into chunks of at most size runes, translates
// each with the reduced prompt and joins the results with a space. A chunk
// that fails is kept as is; one that overflows the context window is split
// again at half size while that stays at or above MinChunkChars.
func (t *Translator) TranslateChunks(ctx context.Context, text string, size int) string {
	chunks := SplitChunks(text, size)
	out := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			out = append(out, chunks[i:]...)
			break
		}
		if i > 0 && t.opts.ChunkPause > 0 {
			if err := t.opts.Sleep(ctx, t.opts.ChunkPause); err != nil {
				out = append(out, chunks[i:]...)
				break
			}
		}

		t.opts.Notify(fmt.Sprintf("Long line: part %d/%d", i+1, len(chunks)))
		out = append(out, t.translateChunk(ctx, chunk, size))
	}

	return strings.Join(out, " ")
}

func (t *Translator) translateChunk(ctx context.Context, chunk string, size int) string {
	res, err := t.completer.Complete(ctx, llm.Request{
		System:      t.prompts.ChunkSystemPrompt(),
		User:        chunk,
		Model:       t.opts.Model,
		Temperature: t.opts.Temperature,
		MaxTokens:   min(textutil.Len(chunk)*3, 2000),
	})
	if err == nil {
		if strings.TrimSpace(res) == "" {
			return chunk
		}
		return res
	}

	if Classify(err) == ContextOverflow && size/2 >= MinChunkChars {
		return t.TranslateChunks(ctx, chunk, size/2)
	}
	log.Debug().Err(err).Int("size", textutil.Len(chunk)).Msg("Chunk kept untranslated")
	return chunk
}

func (t *Translator) references(ctx context.Context, text string) []Reference {
	if t.opts.References == nil {
		return nil
	}
	refs, err := t.opts.References.References(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("Reference lookup failed")
		return nil
	}
	return refs
}

var chatPhrases = []string{
	"зрозуміло", "готовий до роботи", "надайте текст", "готовий перекладати",
	"i understand", "ready to", "please provide", "i'm ready",
	"вибачте", "не можу", "sorry", "i cannot", "i can't",
}

// rejected reports whether out is a conversational reply rather than a
// translation of in.
func rejected(in, out string) bool {
	if textutil.Len(out) < 2 {
		return true
	}
	if textutil.Len(out) <= 2*textutil.Len(in) {
		return false
	}
	return containsAny(strings.ToLower(out), chatPhrases)
}
