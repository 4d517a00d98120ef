package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalk(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"ui.json",
		"ui-ukr.json",
		"notes.md",
		"lang/strings.PO",
		"lang/dialog.yml",
		".git/config.ini",
		"subs/movie.srt",
	} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := NewWalker("ukr").Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "lang/dialog.yml"),
		filepath.Join(root, "lang/strings.PO"),
		filepath.Join(root, "subs/movie.srt"),
		filepath.Join(root, "ui.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "any.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewWalker("ukr").Walk(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{path}, got); diff != "" {
		t.Errorf("Walk(file) mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkMissing(t *testing.T) {
	if _, err := NewWalker("").Walk(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}
