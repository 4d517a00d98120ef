package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"line-translator/internal/cache"
	"line-translator/internal/config"
	"line-translator/internal/export"
	"line-translator/internal/extract"
	"line-translator/internal/filewalker"
	"line-translator/internal/glossary"
	"line-translator/internal/llm"
	"line-translator/internal/memory"
	"line-translator/internal/pipeline"
	"line-translator/internal/quality"
	"line-translator/internal/textutil"
	"line-translator/internal/translation"
)

type translateOptions struct {
	output     string
	glossary   string
	noAutosave bool
	noMemory   bool
}

func translateCmd() *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate <file-or-directory>",
		Short: "Translate a file, or every supported file in a directory",
		Long: `Translates line by line. Each output is written next to its original as
<stem>-<suffix><ext> unless --output is given for a single file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if opts.glossary != "" {
				cfg.GlossaryFile = opts.glossary
			}
			return runTranslate(cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (single file only)")
	cmd.Flags().StringVar(&opts.glossary, "glossary", "", "Glossary file (JSON or YAML)")
	cmd.Flags().BoolVar(&opts.noAutosave, "no-autosave", false, "Disable periodic autosave")
	cmd.Flags().BoolVar(&opts.noMemory, "no-memory", false, "Do not consult the translation memory")

	return cmd
}

// runTranslate handles the `translate` command.
func runTranslate(cfg *config.Config, target string, opts translateOptions) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := filewalker.NewWalker(cfg.OutputSuffix).Walk(target)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn().Str("path", target).Msg("No supported files found")
		return nil
	}
	if opts.output != "" && len(files) > 1 {
		return errors.New("--output applies to a single file only")
	}

	var stop deferredStop
	ctx, cancel := setupContext(stop.Stop)
	defer cancel()

	orch, cleanup, err := buildOrchestrator(ctx, cfg, !opts.noMemory)
	if err != nil {
		return err
	}
	defer cleanup()
	stop.Set(orch)

	log.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("language", cfg.TargetLanguage).
		Int("files", len(files)).
		Msg("Starting translation")

	for _, path := range files {
		if stop.Requested() {
			log.Warn().Msg("Translation stopped, remaining files skipped")
			break
		}
		out := opts.output
		if out == "" {
			out = export.OutputPath(path, cfg.OutputSuffix)
		}

		summary, err := translateFile(ctx, cfg, orch, path, out, !opts.noAutosave)
		if err != nil {
			return err
		}
		if summary.Stopped {
			log.Warn().Msg("Translation stopped, remaining files skipped")
			break
		}
	}
	return nil
}

// buildOrchestrator wires the client, glossary, cache and translation
// memory into an orchestrator. The cleanup func releases connections.
func buildOrchestrator(ctx context.Context, cfg *config.Config, useMemory bool) (*pipeline.Orchestrator, func(), error) {
	run := cfg.Snapshot()
	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout)
	if err != nil {
		return nil, nil, err
	}

	terms, err := loadGlossary(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var (
		spanCache  pipeline.Cache = cache.NewMemory()
		references translation.ReferenceSource
	)
	if cfg.DatabaseURL != "" {
		pool, err := cache.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)

		pg := cache.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := pg.Preload(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to preload cache")
		}
		spanCache = pg

		if useMemory {
			references, err = newRetriever(ctx, cfg, pool)
			if err != nil {
				log.Warn().Err(err).Msg("Translation memory unavailable")
			}
		}
	}

	var orch *pipeline.Orchestrator
	notify := func(text string) { orch.Notify(text) }

	translator := translation.NewTranslator(client, translation.NewPromptBuilder(run.TargetLanguage), translation.Options{
		Model:       run.Model,
		Temperature: run.Temperature,
		ChunkPause:  run.ChunkPause,
		Notify:      notify,
		Terms:       terms,
		References:  references,
	})
	controller := translation.NewController(translator, translation.ControllerOptions{
		MaxRetries: run.MaxRetries,
		MaxChars:   run.MaxChars,
		Marker:     run.FailureMarker,
		Notify:     notify,
	})
	orch = pipeline.New(controller, pipeline.Options{
		Extractor:  extract.New(extract.WithTranslatableKeys(run.ExtraTranslatableKeys...)),
		Cache:      spanCache,
		CacheScope: []string{run.Model, run.TargetLanguage},
	})

	return orch, cleanup, nil
}

// loadGlossary reads the glossary file (or the built-in one) and merges in
// the terms stored in Neo4j when it is configured.
func loadGlossary(ctx context.Context, cfg *config.Config) (*glossary.Glossary, error) {
	g, err := glossary.LoadOrDefault(cfg.GlossaryFile, cfg.TargetLanguage)
	if err != nil {
		return nil, err
	}
	if cfg.Neo4jURI == "" {
		return g, nil
	}

	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Glossary graph unavailable")
		return g, nil
	}
	defer driver.Close(ctx)

	stored, err := glossary.NewGraphStore(driver, cfg.TargetLanguage).Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load glossary graph")
		return g, nil
	}
	log.Debug().Int("terms", stored.Len()).Msg("Loaded glossary graph")
	return g.Merge(stored), nil
}

// translateFile runs one file through orch and writes the result to out.
func translateFile(ctx context.Context, cfg *config.Config, orch *pipeline.Orchestrator, path, out string, autosave bool) (pipeline.Summary, error) {
	lines, err := readLines(path)
	if err != nil {
		return pipeline.Summary{}, err
	}

	stats := textutil.CountStats(strings.Join(lines, "\n"))
	log.Info().
		Str("file", path).
		Int("words", stats.Words).
		Int("chars", stats.Chars).
		Int("lines", stats.Lines).
		Msg("Loaded file")

	events, err := orch.Start(ctx, lines)
	if err != nil {
		return pipeline.Summary{}, err
	}

	if autosave {
		saveCtx, stopSave := context.WithCancel(ctx)
		defer stopSave()
		go pipeline.NewAutosaver(cfg.AutosaveFile, cfg.AutosaveInterval, orch).Run(saveCtx)
	}

	summary := observe(events, filepath.Base(path), len(lines))

	if len(summary.Lines) == 0 {
		log.Warn().Str("file", path).Msg("Nothing translated, output not written")
		return summary, nil
	}
	if err := writeLines(out, summary.Lines); err != nil {
		return summary, err
	}

	log.Info().
		Str("output", out).
		Int("lines", len(summary.Lines)).
		Int("translated", summary.Translated).
		Int("fallbacks", summary.Fallbacks).
		Int("cached", summary.CacheHits).
		Dur("elapsed", summary.Elapsed.Round(time.Second)).
		Bool("stopped", summary.Stopped).
		Msg("File translated")

	reportIssues(quality.Check(lines, summary.Lines))
	return summary, nil
}

// observe drives a progress bar from a run's events and returns its summary.
func observe(events <-chan pipeline.Event, name string, total int) pipeline.Summary {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", name)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var summary pipeline.Summary
	for e := range events {
		switch ev := e.(type) {
		case pipeline.EventProgress:
			bar.Describe(fmt.Sprintf("[cyan]%s[reset] %.0f lines/min, ETA %s", name, ev.Rate, ev.ETA.Round(time.Second)))
			bar.Set(ev.Index + 1)
		case pipeline.EventStatus:
			bar.Describe(fmt.Sprintf("[yellow]%s[reset]", ev.Text))
		case pipeline.EventLine:
			if ev.Outcome.Fallback {
				log.Debug().Int("line", ev.Index+1).Str("text", textutil.Truncate(ev.Text, 60)).Msg("Line kept untranslated")
			}
		case pipeline.EventComplete:
			bar.Finish()
			summary = ev.Summary
		case pipeline.EventStopped:
			summary = ev.Summary
		}
	}
	fmt.Fprintln(os.Stderr)
	return summary
}

func reportIssues(issues []quality.Issue) {
	if len(issues) == 0 {
		return
	}
	counts := quality.Summary(issues)
	log.Warn().
		Int("empty", counts[quality.EmptyTranslation]).
		Int("missing_placeholders", counts[quality.MissingPlaceholders]).
		Msg("Quality check found issues")
	for _, is := range issues {
		log.Debug().Msg(is.Message)
	}
}

func newRetriever(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (translation.ReferenceSource, error) {
	store, err := openVectorStore(ctx, cfg, pool)
	if err != nil {
		return nil, err
	}
	embedder, err := memory.NewEmbeddingClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	if err != nil {
		return nil, err
	}
	return memory.NewRetriever(embedder, store, cfg.TargetLanguage, cfg.MemoryTopK, cfg.MemoryMinSimilarity), nil
}
