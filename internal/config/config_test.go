package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	testChdir(t, t.TempDir())
	for _, k := range []string{"PROVIDER", "BASE_URL", "MODEL", "API_KEY", "OPENAI_API_KEY", "AUTOSAVE_INTERVAL", "EXTRA_TRANSLATABLE_KEYS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.BaseURL != "https://api.openai.com/v1" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("provider defaults = %q %q", cfg.BaseURL, cfg.Model)
	}
	if cfg.AutosaveInterval != 30*time.Second || cfg.MaxChars != 2000 || cfg.Temperature != 0.3 {
		t.Errorf("run defaults = %+v", cfg)
	}
	if !errors.Is(cfg.Validate(), ErrMissingAPIKey) {
		t.Errorf("Validate without key = %v", cfg.Validate())
	}
}

func TestLoadFromEnv(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("PROVIDER", "ollama")
	t.Setenv("MODEL", "qwen2.5")
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CHUNK_PAUSE", "500ms")
	t.Setenv("AUTOSAVE_INTERVAL", "10")
	t.Setenv("EXTRA_TRANSLATABLE_KEYS", "subtitle, lore ,")

	cfg := Load()
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Model != "qwen2.5" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.ChunkPause != 500*time.Millisecond || cfg.AutosaveInterval != 10*time.Second {
		t.Errorf("durations = %v %v", cfg.ChunkPause, cfg.AutosaveInterval)
	}
	if diff := cmp.Diff([]string{"subtitle", "lore"}, cfg.ExtraTranslatableKeys); diff != "" {
		t.Errorf("extra keys mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("local provider needs no key: %v", err)
	}
}

func TestUsePreset(t *testing.T) {
	cfg := &Config{Model: "gpt-4o"}
	if err := cfg.UsePreset("lm-studio"); err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "LM Studio" || cfg.BaseURL != "http://localhost:1234/v1" || cfg.Model != "local-model" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.UsePreset("nope"); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	cfg := &Config{Model: "m", ExtraTranslatableKeys: []string{"a"}}
	snap := cfg.Snapshot()
	cfg.Model = "changed"
	cfg.ExtraTranslatableKeys[0] = "b"

	if snap.Model != "m" || snap.ExtraTranslatableKeys[0] != "a" {
		t.Errorf("snapshot follows live config: %+v", snap)
	}
}
