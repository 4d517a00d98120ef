package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"line-translator/internal/cache"
	"line-translator/internal/config"
	"line-translator/internal/extract"
	"line-translator/internal/glossary"
	"line-translator/internal/memory"
)

func glossaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage the terminology glossary",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in glossary to a JSON or YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cfg.GlossaryFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := glossary.Default().Save(path); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("Glossary written")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seed [path]",
		Short: "Store a glossary file (or the built-in one) in Neo4j",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.GlossaryFile = args[0]
			}
			return runGlossarySeed(cfg)
		},
	})

	return cmd
}

// runGlossarySeed handles the `glossary seed` command.
func runGlossarySeed(cfg *config.Config) error {
	ctx, cancel := setupContext(nil)
	defer cancel()

	g, err := glossary.LoadOrDefault(cfg.GlossaryFile, cfg.TargetLanguage)
	if err != nil {
		return err
	}

	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	store := glossary.NewGraphStore(driver, cfg.TargetLanguage)
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure glossary schema: %w", err)
	}
	n, err := store.Save(ctx, g)
	if err != nil {
		return err
	}

	log.Info().Int("terms", n).Str("language", cfg.TargetLanguage).Msg("Glossary seeded")
	return nil
}

func memoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage the translation memory",
	}

	var gitBase, gitTarget, repo string
	ingest := &cobra.Command{
		Use:   "ingest <original> <translated> | ingest --git-base REF --git-target REF [path]",
		Short: "Store the line pairs of an existing translation for reference",
		Long: `Aligns an original file with its translation line by line and stores the
changed spans as reference pairs. With --git-base and --git-target, the pairs
come from the lines rewritten between two commits instead.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ex := extract.New(extract.WithTranslatableKeys(cfg.ExtraTranslatableKeys...))
			collect := func(ctx context.Context) ([]memory.Pair, error) {
				if len(args) != 2 {
					return nil, errors.New("expected <original> <translated>")
				}
				orig, err := readLines(args[0])
				if err != nil {
					return nil, err
				}
				tran, err := readLines(args[1])
				if err != nil {
					return nil, err
				}
				return memory.Align(ex, orig, tran), nil
			}
			if gitBase != "" || gitTarget != "" {
				if gitBase == "" || gitTarget == "" {
					return errors.New("--git-base and --git-target go together")
				}
				path := "."
				if len(args) == 1 {
					path = args[0]
				}
				collect = func(ctx context.Context) ([]memory.Pair, error) {
					return memory.GitPairs(ctx, ex, repo, gitBase, gitTarget, path)
				}
			}
			return runMemoryIngest(cfg, collect)
		},
	}
	ingest.Flags().StringVar(&gitBase, "git-base", "", "Commit holding the originals")
	ingest.Flags().StringVar(&gitTarget, "git-target", "", "Commit holding the translations")
	ingest.Flags().StringVar(&repo, "repo", ".", "Git repository root")

	cmd.AddCommand(ingest)
	return cmd
}

// runMemoryIngest handles the `memory ingest` command.
func runMemoryIngest(cfg *config.Config, collect func(context.Context) ([]memory.Pair, error)) error {
	ctx, cancel := setupContext(nil)
	defer cancel()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the translation memory")
	}

	pairs, err := collect(ctx)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		log.Warn().Msg("No translated pairs found")
		return nil
	}
	log.Info().Int("pairs", len(pairs)).Msg("Aligned translation pairs")

	pool, err := cache.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := openVectorStore(ctx, cfg, pool)
	if err != nil {
		return err
	}
	embedder, err := memory.NewEmbeddingClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	if err != nil {
		return err
	}

	ingester := memory.NewIngester(embedder, store, cfg.TargetLanguage, cfg.BatchSize, cfg.WorkerCount)
	n, err := ingester.Ingest(ctx, pairs)
	if err != nil {
		return fmt.Errorf("ingest memory (%d stored): %w", n, err)
	}

	log.Info().Int("stored", n).Str("language", cfg.TargetLanguage).Msg("Memory ingestion complete")
	return nil
}

func openVectorStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*memory.VectorStore, error) {
	store := memory.NewVectorStore(pool, cfg.EmbeddingDimensions)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
