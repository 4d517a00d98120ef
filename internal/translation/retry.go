package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"line-translator/internal/textutil"
)

// DefaultMarker prefixes lines whose translation failed.
const DefaultMarker = "[!]"

// Outcome is the result of translating one span.
type Outcome struct {
	Text string
	// Fallback is set when recovery failed and Text carries the original.
	Fallback bool
	// Attempts counts the calls consumed from the retry budget.
	Attempts int
}

// ControllerOptions configures a Controller. Zero values take defaults.
type ControllerOptions struct {
	MaxRetries int
	MaxChars   int
	MinChars   int
	Marker     string
	Sleep      Sleeper
	Notify     func(string)
}

// Controller wraps Translator calls with error classification and the
// matching recovery: backoff for rate limits and transient failures,
// re-chunking for context overflow.
type Controller struct {
	translator *Translator
	opts       ControllerOptions
}

// NewController creates a Controller around translator.
func NewController(translator *Translator, opts ControllerOptions) *Controller {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.MinChars <= 0 {
		opts.MinChars = MinChunkChars
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.Notify == nil {
		opts.Notify = func(string) {}
	}
	return &Controller{translator: translator, opts: opts}
}

// Translate translates text, recovering from backend failures. It never
// returns an error: the worst outcome is the original text with the
// failure marker and Fallback set.
func (c *Controller) Translate(ctx context.Context, text string, placeholders []string) Outcome {
	last := c.opts.MaxRetries - 1

	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		out, err := c.translator.Translate(ctx, text, placeholders, c.opts.MaxChars)
		if err == nil {
			return Outcome{Text: out, Attempts: attempt + 1}
		}
		if ctx.Err() != nil {
			return Outcome{Text: text, Fallback: true, Attempts: attempt + 1}
		}

		var wait time.Duration
		switch Classify(err) {
		case Fatal:
			return Outcome{Text: text, Fallback: true, Attempts: attempt + 1}

		case ContextOverflow:
			next := min(c.opts.MaxChars, textutil.Len(text)) / 2
			if next < c.opts.MinChars {
				log.Warn().Int("length", textutil.Len(text)).Msg("Context overflow below chunk floor, keeping original")
				return Outcome{Text: text, Fallback: true, Attempts: attempt + 1}
			}
			c.opts.Notify("Line too long, splitting...")
			return Outcome{Text: c.translator.TranslateChunks(ctx, text, next), Attempts: attempt + 1}

		case RateLimited:
			wait = time.Duration(attempt+1) * 5 * time.Second
			if attempt < last {
				c.opts.Notify(fmt.Sprintf("Rate limit, waiting %s...", wait))
			}

		default:
			wait = time.Duration(1<<attempt) * time.Second
			if attempt < last {
				c.opts.Notify(fmt.Sprintf("Error, attempt %d/%d in %s...", attempt+2, c.opts.MaxRetries, wait))
			}
		}

		log.Debug().Err(err).Int("attempt", attempt+1).Msg("Translation call failed")
		if attempt == last {
			break
		}
		if err := c.opts.Sleep(ctx, wait); err != nil {
			return Outcome{Text: text, Fallback: true, Attempts: attempt + 1}
		}
	}

	return Outcome{
		Text:     c.opts.Marker + " " + text,
		Fallback: true,
		Attempts: c.opts.MaxRetries,
	}
}
