package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAutosaveInterval is how often committed output is written out.
const DefaultAutosaveInterval = 30 * time.Second

// Snapshotter returns the lines committed so far.
type Snapshotter interface {
	Snapshot() []string
}

// Autosaver periodically writes a run's committed output to a file.
type Autosaver struct {
	path     string
	interval time.Duration
	source   Snapshotter
}

// NewAutosaver creates an autosaver writing source's snapshot to path.
func NewAutosaver(path string, interval time.Duration, source Snapshotter) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{path: path, interval: interval, source: source}
}

// Run saves on every tick until ctx is done.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Save(); err != nil {
				log.Warn().Err(err).Str("path", a.path).Msg("Autosave failed")
			}
		}
	}
}

// Save writes the current snapshot. An empty snapshot is not written.
func (a *Autosaver) Save() error {
	lines := a.source.Snapshot()
	if len(lines) == 0 {
		return nil
	}
	if err := WriteFileAtomic(a.path, []byte(strings.Join(lines, "\n"))); err != nil {
		return err
	}
	log.Debug().Str("path", a.path).Int("lines", len(lines)).Msg("Autosaved")
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
