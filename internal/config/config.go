package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// ErrMissingAPIKey is returned when the selected provider needs a key and
// none is configured.
var ErrMissingAPIKey = errors.New("api key is required for this provider")

type Config struct {
	Provider              string
	BaseURL               string
	APIKey                string
	Model                 string
	TargetLanguage        string
	Temperature           float64
	MaxRetries            int
	MaxChars              int
	ChunkPause            time.Duration
	RequestTimeout        time.Duration
	FailureMarker         string
	OutputSuffix          string
	GlossaryFile          string
	ExtraTranslatableKeys []string
	AutosaveInterval      time.Duration
	AutosaveFile          string
	DatabaseURL           string
	Neo4jURI              string
	Neo4jUser             string
	Neo4jPassword         string
	EmbeddingBaseURL      string
	EmbeddingAPIKey       string
	EmbeddingModel        string
	EmbeddingDimensions   int
	MemoryTopK            int
	MemoryMinSimilarity   float64
	WorkerCount           int
	BatchSize             int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	provider := getEnv("PROVIDER", "OpenAI")
	preset, _ := LookupPreset(provider)

	cfg := &Config{
		Provider:              provider,
		BaseURL:               getEnv("BASE_URL", preset.BaseURL),
		APIKey:                getEnv("API_KEY", os.Getenv("OPENAI_API_KEY")),
		Model:                 getEnv("MODEL", preset.DefaultModel()),
		TargetLanguage:        getEnv("TARGET_LANGUAGE", "Ukrainian"),
		Temperature:           getEnvFloat("TEMPERATURE", 0.3),
		MaxRetries:            getEnvInt("MAX_RETRIES", 3),
		MaxChars:              getEnvInt("MAX_CHARS", 2000),
		ChunkPause:            getEnvDuration("CHUNK_PAUSE", 300*time.Millisecond),
		RequestTimeout:        getEnvDuration("REQUEST_TIMEOUT", 120*time.Second),
		FailureMarker:         getEnv("FAILURE_MARKER", "[!]"),
		OutputSuffix:          getEnv("OUTPUT_SUFFIX", "ukr"),
		GlossaryFile:          getEnv("GLOSSARY_FILE", "glossary.json"),
		ExtraTranslatableKeys: getEnvList("EXTRA_TRANSLATABLE_KEYS"),
		AutosaveInterval:      getEnvDuration("AUTOSAVE_INTERVAL", 30*time.Second),
		AutosaveFile:          getEnv("AUTOSAVE_FILE", "autosave_translation.txt"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Neo4jURI:              getEnv("NEO4J_URI", ""),
		Neo4jUser:             getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:         getEnv("NEO4J_PASSWORD", "password"),
		EmbeddingModel:        getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions:   getEnvInt("EMBEDDING_DIMENSIONS", 1024),
		MemoryTopK:            getEnvInt("MEMORY_TOP_K", 3),
		MemoryMinSimilarity:   getEnvFloat("MEMORY_MIN_SIMILARITY", 0.75),
		WorkerCount:           getEnvInt("WORKER_COUNT", 4),
		BatchSize:             getEnvInt("BATCH_SIZE", 32),
	}
	cfg.EmbeddingBaseURL = getEnv("EMBEDDING_BASE_URL", cfg.BaseURL)
	cfg.EmbeddingAPIKey = getEnv("EMBEDDING_API_KEY", cfg.APIKey)

	return cfg
}

// UsePreset switches to the named provider, taking its endpoint and first
// model.
func (c *Config) UsePreset(name string) error {
	p, ok := LookupPreset(name)
	if !ok {
		return fmt.Errorf("unknown provider %q", name)
	}
	c.Provider = p.Name
	c.BaseURL = p.BaseURL
	if m := p.DefaultModel(); m != "" {
		c.Model = m
	}
	return nil
}

// Validate checks the settings a translation run cannot start without.
func (c *Config) Validate() error {
	if p, ok := LookupPreset(c.Provider); ok && p.NeedsKey && c.APIKey == "" {
		return fmt.Errorf("%s: %w", p.Name, ErrMissingAPIKey)
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model is required")
	}
	return nil
}

// RunConfig is the immutable set of settings a translation run captures
// when it starts.
type RunConfig struct {
	Model                 string
	TargetLanguage        string
	Temperature           float64
	MaxRetries            int
	MaxChars              int
	ChunkPause            time.Duration
	FailureMarker         string
	ExtraTranslatableKeys []string
}

// Snapshot copies the run settings out of c.
func (c *Config) Snapshot() RunConfig {
	return RunConfig{
		Model:                 c.Model,
		TargetLanguage:        c.TargetLanguage,
		Temperature:           c.Temperature,
		MaxRetries:            c.MaxRetries,
		MaxChars:              c.MaxChars,
		ChunkPause:            c.ChunkPause,
		FailureMarker:         c.FailureMarker,
		ExtraTranslatableKeys: append([]string(nil), c.ExtraTranslatableKeys...),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// getEnvDuration accepts Go durations ("300ms") or whole seconds ("30").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
