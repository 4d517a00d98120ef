package memory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"line-translator/internal/textutil"
	"line-translator/internal/worker"
)

// Ingester embeds pairs and stores them for later retrieval.
type Ingester struct {
	embedder  Embedder
	store     Store
	language  string
	batchSize int
	workers   int
}

// NewIngester creates an ingester. batchSize defaults to 32 and workers to 4.
func NewIngester(e Embedder, s Store, language string, batchSize, workers int) *Ingester {
	if batchSize <= 0 {
		batchSize = 32
	}
	if workers <= 0 {
		workers = 4
	}
	return &Ingester{
		embedder:  e,
		store:     s,
		language:  language,
		batchSize: batchSize,
		workers:   workers,
	}
}

// Ingest stores pairs, deduplicated by source, and returns how many were
// stored.
func (in *Ingester) Ingest(ctx context.Context, pairs []Pair) (int, error) {
	seen := make(map[string]bool)
	var records []Record
	for _, p := range pairs {
		key := textutil.HashParts(in.language, p.Source)
		if seen[key] || p.Source == "" || p.Target == "" {
			continue
		}
		seen[key] = true
		records = append(records, Record{
			Key:      key,
			Language: in.language,
			Source:   p.Source,
			Target:   p.Target,
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	log.Info().Int("unique", len(records)).Msg("Embedding translation memory")

	pool := worker.NewPool(in.workers, in.storeBatch)
	tasks := pool.Execute(ctx, worker.Batch(records, in.batchSize))

	stored := 0
	for _, t := range tasks {
		stored += t.Result
	}
	if err := worker.Errors(tasks); err != nil {
		return stored, err
	}

	log.Info().Int("stored", stored).Msg("Translation memory updated")
	return stored, nil
}

func (in *Ingester) storeBatch(ctx context.Context, batch []Record) (int, error) {
	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = r.Source
	}

	vectors, err := in.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}

	records := make([]Record, 0, len(batch))
	for i, r := range batch {
		if i >= len(vectors) || vectors[i] == nil {
			log.Warn().Str("text", textutil.Truncate(r.Source, 30)).Msg("Missing embedding")
			continue
		}
		r.Vector = vectors[i]
		records = append(records, r)
	}

	if err := in.store.Upsert(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
