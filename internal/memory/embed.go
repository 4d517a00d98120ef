// Package memory keeps previously translated lines as embeddings and offers
// the most similar ones to the translator as reference pairs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
)

// Embedder turns texts into vectors, one per text in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingClient generates embeddings via an OpenAI-compatible API.
type EmbeddingClient struct {
	sdk        openai.Client
	model      string
	dimensions int
}

// NewEmbeddingClient creates an embedding client. dimensions defaults to 1024.
func NewEmbeddingClient(baseURL, apiKey, model string, dimensions int) (*EmbeddingClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("embedding base url is required")
	}
	if apiKey == "" {
		apiKey = "not-needed"
	}
	if dimensions <= 0 {
		dimensions = 1024
	}

	sdk := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(60*time.Second),
	)
	return &EmbeddingClient{sdk: sdk, model: model, dimensions: dimensions}, nil
}

// Dimensions returns the vector size requested from the API.
func (ec *EmbeddingClient) Dimensions() int {
	return ec.dimensions
}

// Embed generates embeddings for a batch of texts.
func (ec *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := ec.sdk.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(ec.model),
		Dimensions: openai.Int(int64(ec.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding API call: %w", err)
	}

	// Build result ordered by index.
	results := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(results) {
			continue
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		results[d.Index] = vec
	}

	log.Debug().
		Int("texts", len(texts)).
		Int64("tokens", resp.Usage.TotalTokens).
		Msg("Generated embeddings")

	return results, nil
}

// EmbedQuery generates the embedding for a single lookup text.
func EmbedQuery(ctx context.Context, e Embedder, text string) ([]float32, error) {
	results, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}
	if len(results) == 0 || results[0] == nil {
		return nil, errors.New("no embedding returned for query")
	}
	return results[0], nil
}
