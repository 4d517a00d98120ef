package memory

import (
	"context"

	"line-translator/internal/translation"
)

// Retriever looks up reference translations for a span.
type Retriever struct {
	embedder      Embedder
	store         Store
	language      string
	topK          int
	minSimilarity float64
}

// NewRetriever creates a retriever returning at most topK matches whose
// similarity reaches minSimilarity.
func NewRetriever(e Embedder, s Store, language string, topK int, minSimilarity float64) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{
		embedder:      e,
		store:         s,
		language:      language,
		topK:          topK,
		minSimilarity: minSimilarity,
	}
}

// References implements translation.ReferenceSource.
func (r *Retriever) References(ctx context.Context, text string) ([]translation.Reference, error) {
	vec, err := EmbedQuery(ctx, r.embedder, text)
	if err != nil {
		return nil, err
	}
	matches, err := r.store.Search(ctx, vec, r.language, r.topK)
	if err != nil {
		return nil, err
	}

	var refs []translation.Reference
	for _, m := range matches {
		if m.Similarity < r.minSimilarity {
			continue
		}
		refs = append(refs, translation.Reference{
			Source:     m.Source,
			Target:     m.Target,
			Similarity: m.Similarity,
		})
	}
	return refs, nil
}
