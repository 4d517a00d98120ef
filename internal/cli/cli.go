package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"line-translator/internal/config"
	"line-translator/internal/pipeline"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	rootCmd := &cobra.Command{
		Use:   "linetrans",
		Short: "Line-by-line LLM translator for localization files",
		Long: `Translates localization and subtitle files line by line through any
OpenAI-compatible endpoint, keeping keys, markup and placeholders intact.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("provider", "", "Provider preset (see `linetrans providers`)")
	flags.String("base-url", "", "OpenAI-compatible base URL")
	flags.String("api-key", "", "API key")
	flags.String("model", "", "Model name")
	flags.String("language", "", "Target language")

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(probeCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(glossaryCmd())
	rootCmd.AddCommand(memoryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	flags := cmd.Flags()

	if flags.Changed("provider") {
		name, _ := flags.GetString("provider")
		if err := cfg.UsePreset(name); err != nil {
			return nil, err
		}
	}
	overrides := map[string]*string{
		"base-url": &cfg.BaseURL,
		"api-key":  &cfg.APIKey,
		"model":    &cfg.Model,
		"language": &cfg.TargetLanguage,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	return cfg, nil
}

// setupContext creates a cancellable context with signal handling. When
// graceful is set, the first signal calls it and only a second one cancels.
func setupContext(graceful func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		if !waitSignal(ctx, sigCh) {
			return
		}
		if graceful != nil {
			log.Warn().Msg("Received shutdown signal, stopping after the current line (repeat to abort)")
			graceful()
			if !waitSignal(ctx, sigCh) {
				return
			}
		}
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// deferredStop forwards a graceful stop from the signal goroutine to a target
// that is only known once the run has been set up. A stop received before
// Set is applied when the target arrives.
type deferredStop struct {
	mu      sync.Mutex
	target  interface{ Stop() }
	pending bool
}

func (d *deferredStop) Set(target interface{ Stop() }) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = target
	if d.pending && target != nil {
		target.Stop()
	}
}

func (d *deferredStop) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.target != nil {
		d.target.Stop()
	}
}

// Requested reports whether Stop has been called.
func (d *deferredStop) Requested() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func waitSignal(ctx context.Context, sigCh <-chan os.Signal) bool {
	select {
	case <-sigCh:
		return true
	case <-ctx.Done():
		return false
	}
}

// connectNeo4j opens and verifies a Neo4j driver.
func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	if cfg.Neo4jURI == "" {
		return nil, errors.New("NEO4J_URI is not set")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Debug().Str("uri", cfg.Neo4jURI).Msg("Connected to Neo4j")
	return driver, nil
}

// readLines loads a file as raw lines split on "\n".
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return strings.Split(string(data), "\n"), nil
}

func writeLines(path string, lines []string) error {
	if err := pipeline.WriteFileAtomic(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
