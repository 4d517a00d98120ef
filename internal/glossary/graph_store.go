package glossary

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// GraphStore keeps glossary terms in Neo4j, one (:Term) node per source
// phrase and target language.
type GraphStore struct {
	driver   neo4j.DriverWithContext
	language string
}

// NewGraphStore creates a store for terms translated into language.
func NewGraphStore(driver neo4j.DriverWithContext, language string) *GraphStore {
	return &GraphStore{driver: driver, language: language}
}

// EnsureSchema creates the uniqueness constraint on terms.
func (gs *GraphStore) EnsureSchema(ctx context.Context) error {
	session := gs.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT term_key IF NOT EXISTS FOR (t:Term) REQUIRE (t.key, t.language) IS UNIQUE",
		nil)
	if err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}

	log.Debug().Msg("Glossary graph schema ensured")
	return nil
}

// Save upserts every term of g.
func (gs *GraphStore) Save(ctx context.Context, g *Glossary) (int, error) {
	session := gs.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	count := 0
	for _, t := range g.Terms() {
		_, err := session.Run(ctx, `
			MERGE (t:Term {key: toLower($source), language: $language})
			SET t.source = $source,
			    t.target = $target,
			    t.category = $category
		`, map[string]any{
			"source":   t.Source,
			"target":   t.Target,
			"category": t.Category,
			"language": gs.language,
		})
		if err != nil {
			return count, fmt.Errorf("upsert term %s: %w", t.Source, err)
		}
		count++
	}

	log.Info().Int("terms", count).Str("language", gs.language).Msg("Seeded glossary graph")
	return count, nil
}

// Load reads every term for the store's language.
func (gs *GraphStore) Load(ctx context.Context) (*Glossary, error) {
	session := gs.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Term {language: $language})
		RETURN t.source AS source, t.target AS target, t.category AS category
	`, map[string]any{"language": gs.language})
	if err != nil {
		return nil, fmt.Errorf("load glossary graph: %w", err)
	}

	var terms []Term
	for result.Next(ctx) {
		record := result.Record()
		source, _ := record.Get("source")
		target, _ := record.Get("target")
		category, _ := record.Get("category")

		terms = append(terms, Term{
			Source:   asString(source),
			Target:   asString(target),
			Category: asString(category),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read glossary graph: %w", err)
	}

	log.Info().Int("count", len(terms)).Msg("Loaded glossary from graph")
	return FromTerms(terms), nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
