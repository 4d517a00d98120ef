package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_cache (
    key        TEXT PRIMARY KEY,
    translated TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres is a translation cache backed by PostgreSQL with an in-memory
// layer in front of it.
type Postgres struct {
	pool   *pgxpool.Pool
	memory *Memory
}

// NewPostgres creates a cache on pool. Call EnsureSchema before first use.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, memory: NewMemory()}
}

// Connect opens a pool for databaseURL and verifies it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the cache table if needed.
func (c *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// Get looks in memory first, then in the database.
func (c *Postgres) Get(ctx context.Context, key string) (string, bool) {
	if v, ok := c.memory.Get(ctx, key); ok {
		return v, true
	}

	var translated string
	err := c.pool.QueryRow(ctx, `SELECT translated FROM translation_cache WHERE key = $1`, key).Scan(&translated)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Err(err).Msg("Cache lookup failed")
		}
		return "", false
	}

	c.memory.Set(ctx, key, translated)
	return translated, true
}

// Set stores a translation in memory and upserts it into the database.
func (c *Postgres) Set(ctx context.Context, key, value string) error {
	c.memory.Set(ctx, key, value)

	_, err := c.pool.Exec(ctx, `
		INSERT INTO translation_cache (key, translated)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET translated = EXCLUDED.translated`,
		key, value)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Preload loads every cached translation into memory.
func (c *Postgres) Preload(ctx context.Context) error {
	rows, err := c.pool.Query(ctx, `SELECT key, translated FROM translation_cache`)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, translated string
		if err := rows.Scan(&key, &translated); err != nil {
			return fmt.Errorf("scan cache row: %w", err)
		}
		entries[key] = translated
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.memory.load(entries)
	log.Info().Int("count", len(entries)).Msg("Preloaded translation cache")
	return nil
}
