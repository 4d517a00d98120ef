// Package pipeline runs a translation over the lines of one file: classify,
// extract, translate with recovery, restore placeholders and reassemble,
// reporting progress to a single observer.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"line-translator/internal/classify"
	"line-translator/internal/extract"
	"line-translator/internal/placeholder"
	"line-translator/internal/textutil"
	"line-translator/internal/translation"
)

// ErrRunActive is returned when a run is started while another is active.
var ErrRunActive = errors.New("translation run already active")

const eventBuffer = 64

// SpanTranslator translates one extracted span and never fails outright.
type SpanTranslator interface {
	Translate(ctx context.Context, text string, placeholders []string) translation.Outcome
}

// Cache stores finished span translations.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// RunState describes the active run. The zero value means idle.
type RunState struct {
	ID              string
	Running         bool
	StartTime       time.Time
	TranslatedCount int
}

// Options configures an Orchestrator.
type Options struct {
	// Extractor defaults to extract.New().
	Extractor *extract.Extractor
	// Cache is optional.
	Cache Cache
	// CacheScope separates cache entries of different models and target
	// languages.
	CacheScope []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Orchestrator processes the lines of a file in order on one worker.
type Orchestrator struct {
	translator SpanTranslator
	extractor  *extract.Extractor
	cache      Cache
	scope      []string
	now        func() time.Time

	stop atomic.Bool

	mu     sync.Mutex
	state  RunState
	output []string
	emit   func(Event)
}

// New creates an Orchestrator around translator.
func New(translator SpanTranslator, opts Options) *Orchestrator {
	if opts.Extractor == nil {
		opts.Extractor = extract.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		translator: translator,
		extractor:  opts.Extractor,
		cache:      opts.Cache,
		scope:      opts.CacheScope,
		now:        opts.Now,
	}
}

// Start begins a run in the background and returns its event channel. The
// channel is closed after EventComplete or EventStopped.
func (o *Orchestrator) Start(ctx context.Context, lines []string) (<-chan Event, error) {
	events := make(chan Event, eventBuffer)
	emit := func(e Event) { events <- e }
	if err := o.begin(emit); err != nil {
		return nil, err
	}

	go func() {
		defer close(events)
		o.process(ctx, lines)
	}()
	return events, nil
}

// Run processes lines on the calling goroutine. observe may be nil.
func (o *Orchestrator) Run(ctx context.Context, lines []string, observe func(Event)) (Summary, error) {
	if observe == nil {
		observe = func(Event) {}
	}
	if err := o.begin(observe); err != nil {
		return Summary{}, err
	}
	return o.process(ctx, lines), nil
}

// Stop asks the active run to finish after the current line.
func (o *Orchestrator) Stop() {
	o.stop.Store(true)
}

// State returns a copy of the run state.
func (o *Orchestrator) State() RunState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Snapshot returns a copy of the lines committed so far.
func (o *Orchestrator) Snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.output...)
}

// Notify forwards status text to the observer of the active run.
func (o *Orchestrator) Notify(text string) {
	o.mu.Lock()
	emit := o.emit
	o.mu.Unlock()

	if emit == nil {
		log.Debug().Str("status", text).Msg("Status outside a run")
		return
	}
	emit(EventStatus{Text: text})
}

func (o *Orchestrator) begin(emit func(Event)) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Running {
		return ErrRunActive
	}
	o.stop.Store(false)
	o.state = RunState{
		ID:        uuid.NewString(),
		Running:   true,
		StartTime: o.now(),
	}
	o.output = nil
	o.emit = emit
	return nil
}

func (o *Orchestrator) end() (RunState, func(Event)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	state, emit := o.state, o.emit
	o.state = RunState{}
	o.emit = nil
	return state, emit
}

func (o *Orchestrator) process(ctx context.Context, lines []string) Summary {
	o.mu.Lock()
	start, runID, emit := o.state.StartTime, o.state.ID, o.emit
	o.mu.Unlock()

	log.Debug().Str("run", runID).Int("lines", len(lines)).Msg("Run started")

	summary := Summary{RunID: runID, Total: len(lines)}
	classifier := classify.New()

	for i, line := range lines {
		if o.stop.Load() || ctx.Err() != nil {
			summary.Stopped = true
			break
		}

		text, outcome := o.processLine(ctx, classifier, line)
		o.commit(text, outcome)
		summary.count(outcome)

		elapsed := o.now().Sub(start)
		rate, eta := pace(i+1, len(lines), elapsed)
		emit(EventProgress{Index: i, Total: len(lines), Elapsed: elapsed, Rate: rate, ETA: eta})
		emit(EventLine{Index: i, Text: text, Outcome: outcome})
	}

	summary.Lines = o.Snapshot()
	summary.Elapsed = o.now().Sub(start)
	_, emit = o.end()

	if summary.Stopped {
		log.Info().Str("run", runID).Int("done", len(summary.Lines)).Int("total", summary.Total).Msg("Run stopped")
		emit(EventStopped{Summary: summary})
		return summary
	}

	rate, _ := pace(len(lines), len(lines), summary.Elapsed)
	log.Debug().Str("run", runID).Dur("elapsed", summary.Elapsed).Msg("Run complete")
	emit(EventComplete{Elapsed: summary.Elapsed, Rate: rate, Summary: summary})
	return summary
}

func (o *Orchestrator) processLine(ctx context.Context, classifier *classify.Classifier, line string) (string, LineOutcome) {
	if classifier.Classify(line) == classify.PassThrough {
		return line, LineOutcome{}
	}

	res := o.extractor.Extract(line)
	if res.Empty() {
		return line, LineOutcome{}
	}

	key := o.cacheKey(res.Span)
	if o.cache != nil {
		if cached, ok := o.cache.Get(ctx, key); ok {
			return res.Line(cached), LineOutcome{Translated: true, Cached: true}
		}
	}

	out := o.translator.Translate(ctx, res.Span, res.Placeholders)
	if out.Fallback {
		return res.Line(out.Text), LineOutcome{Translated: true, Fallback: true}
	}

	span := placeholder.Restore(res.Span, out.Text, res.Placeholders)
	if o.cache != nil {
		if err := o.cache.Set(ctx, key, span); err != nil {
			log.Warn().Err(err).Msg("Failed to cache translation")
		}
	}
	return res.Line(span), LineOutcome{Translated: true}
}

func (o *Orchestrator) commit(text string, outcome LineOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.output = append(o.output, text)
	if outcome.Translated {
		o.state.TranslatedCount++
	}
}

func (o *Orchestrator) cacheKey(span string) string {
	parts := append(append([]string(nil), o.scope...), span)
	return textutil.HashParts(parts...)
}

func (s *Summary) count(outcome LineOutcome) {
	if outcome.Translated {
		s.Translated++
	}
	if outcome.Fallback {
		s.Fallbacks++
	}
	if outcome.Cached {
		s.CacheHits++
	}
}

// pace returns the rate in lines per minute and the estimated remaining
// time after done of total lines.
func pace(done, total int, elapsed time.Duration) (float64, time.Duration) {
	if done <= 0 || elapsed <= 0 {
		return 0, 0
	}
	rate := float64(done) / elapsed.Minutes()
	eta := time.Duration(float64(total-done) / rate * float64(time.Minute))
	return rate, eta
}
