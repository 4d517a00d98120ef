package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// Record is a translated pair with the embedding of its source.
type Record struct {
	Key      string
	Language string
	Source   string
	Target   string
	Vector   []float32
}

// Match is a stored pair similar to a lookup text.
type Match struct {
	Source     string
	Target     string
	Similarity float64
}

// Store persists records in a pgvector table.
type Store interface {
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, language string, topK int) ([]Match, error)
}

// VectorStore handles pgvector-backed storage and cosine similarity search.
type VectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewVectorStore creates a vector store for vectors of the given size.
func NewVectorStore(pool *pgxpool.Pool, dimensions int) *VectorStore {
	return &VectorStore{pool: pool, dimensions: dimensions}
}

// EnsureSchema creates the extension, table and index if needed.
func (vs *VectorStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS translation_memory (
			key        TEXT PRIMARY KEY,
			language   TEXT NOT NULL,
			source     TEXT NOT NULL,
			target     TEXT NOT NULL,
			embedding  vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, vs.dimensions),
		`CREATE INDEX IF NOT EXISTS translation_memory_embedding_idx
			ON translation_memory USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, stmt := range stmts {
		if _, err := vs.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create memory schema: %w", err)
		}
	}
	return nil
}

// Upsert inserts records in one batch, replacing existing keys.
func (vs *VectorStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO translation_memory (key, language, source, target, embedding)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (key) DO UPDATE
			SET target = EXCLUDED.target, embedding = EXCLUDED.embedding`,
			r.Key, r.Language, r.Source, r.Target, pgvector.NewVector(r.Vector))
	}

	br := vs.pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, r := range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert memory %s: %w", r.Key, err)
		}
	}

	log.Debug().Int("count", len(records)).Msg("Stored memory records")
	return nil
}

// Search finds the topK pairs most similar to vector for language.
func (vs *VectorStore) Search(ctx context.Context, vector []float32, language string, topK int) ([]Match, error) {
	rows, err := vs.pool.Query(ctx, `
		SELECT source, target, 1 - (embedding <=> $1) AS similarity
		FROM translation_memory
		WHERE language = $2
		ORDER BY embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(vector), language, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Source, &m.Target, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
