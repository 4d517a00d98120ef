package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"line-translator/internal/extract"
	"line-translator/internal/translation"
)

func TestAlign(t *testing.T) {
	original := []string{
		`{`,
		`  "title": "Options",`,
		`  "id": "opts",`,
		`  "hint": "Same"`,
		`}`,
		`Hello world`,
		`12:30`,
	}
	translated := []string{
		`{`,
		`  "title": "Опції",`,
		`  "id": "opts",`,
		`  "hint": "Same"`,
		`}`,
		`Привіт світ`,
		`12:30`,
	}

	got := Align(extract.New(), original, translated)
	want := []Pair{
		{Source: "Options", Target: "Опції"},
		{Source: "Hello world", Target: "Привіт світ"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Align mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignStructureMismatch(t *testing.T) {
	got := Align(extract.New(), []string{`name = Sword`}, []string{`title = Меч`})
	if len(got) != 0 {
		t.Errorf("pairs across different keys: %v", got)
	}
}

func TestParseHunks(t *testing.T) {
	diff := "diff --git a/ui.ini b/ui.ini\n" +
		"index 1..2 100644\n" +
		"--- a/ui.ini\n" +
		"+++ b/ui.ini\n" +
		"@@ -1 +1 @@\n" +
		"-title = Options\n" +
		"+title = Опції\n" +
		"@@ -5,0 +6 @@\n" +
		"+added = Нове\n"

	got := parseHunks(diff)
	want := []diffHunk{
		{removed: []string{"title = Options"}, added: []string{"title = Опції"}},
		{added: []string{"added = Нове"}},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(diffHunk{})); diff != "" {
		t.Errorf("parseHunks mismatch (-want +got):\n%s", diff)
	}
}

type fakeEmbedder struct {
	fail bool
}

func (f fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.New("embedding down")
	}
	out := make([][]float32, len(texts))
	for i, s := range texts {
		out[i] = []float32{float32(len(s))}
	}
	return out, nil
}

type fakeStore struct {
	mu      sync.Mutex
	records []Record
	matches []Match
}

func (s *fakeStore) Upsert(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *fakeStore) Search(_ context.Context, _ []float32, _ string, topK int) ([]Match, error) {
	return s.matches[:min(topK, len(s.matches))], nil
}

func TestIngest(t *testing.T) {
	store := &fakeStore{}
	in := NewIngester(fakeEmbedder{}, store, "Ukrainian", 2, 2)

	pairs := []Pair{
		{Source: "Options", Target: "Опції"},
		{Source: "Exit", Target: "Вийти"},
		{Source: "Options", Target: "Налаштування"},
		{Source: "Empty", Target: ""},
		{Source: "Save", Target: "Зберегти"},
	}
	n, err := in.Ingest(context.Background(), pairs)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("stored = %d, want 3", n)
	}

	var sources []string
	for _, r := range store.records {
		sources = append(sources, r.Source)
		if r.Language != "Ukrainian" || len(r.Vector) != 1 || r.Key == "" {
			t.Errorf("record = %+v", r)
		}
	}
	want := []string{"Options", "Exit", "Save"}
	if diff := cmp.Diff(want, sources, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("stored sources mismatch (-want +got):\n%s", diff)
	}
}

func TestIngestEmbeddingFailure(t *testing.T) {
	in := NewIngester(fakeEmbedder{fail: true}, &fakeStore{}, "Ukrainian", 0, 0)
	if _, err := in.Ingest(context.Background(), []Pair{{Source: "a", Target: "b"}}); err == nil {
		t.Error("expected error")
	}
}

func TestRetrieverFiltersBySimilarity(t *testing.T) {
	store := &fakeStore{matches: []Match{
		{Source: "Save game", Target: "Зберегти гру", Similarity: 0.92},
		{Source: "Load game", Target: "Завантажити гру", Similarity: 0.70},
	}}
	r := NewRetriever(fakeEmbedder{}, store, "Ukrainian", 3, 0.75)

	got, err := r.References(context.Background(), "Save the game")
	if err != nil {
		t.Fatal(err)
	}
	want := []translation.Reference{{Source: "Save game", Target: "Зберегти гру", Similarity: 0.92}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}
}
