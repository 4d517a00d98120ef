// Package filewalker discovers localization files under a directory.
package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists the file types the translator opens.
var SupportedExtensions = map[string]bool{
	".json":       true,
	".xml":        true,
	".txt":        true,
	".ini":        true,
	".yaml":       true,
	".yml":        true,
	".po":         true,
	".pot":        true,
	".lua":        true,
	".csv":        true,
	".lang":       true,
	".properties": true,
	".srt":        true,
}

// Supported reports whether path has a supported extension.
func Supported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Walker traverses directories and collects supported files.
type Walker struct {
	// Skip reports files to leave out, such as earlier outputs.
	Skip func(path string) bool
}

// NewWalker creates a Walker that skips files whose stem ends in
// "-<suffix>", the naming of translated outputs.
func NewWalker(suffix string) *Walker {
	marker := "-" + suffix
	return &Walker{
		Skip: func(path string) bool {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			return suffix != "" && strings.HasSuffix(stem, marker)
		},
	}
}

// Walk returns every supported file under root in lexical order. A file
// root is returned as is.
func (w *Walker) Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !Supported(path) || (w.Skip != nil && w.Skip(path)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(files)
	log.Debug().Int("count", len(files)).Str("root", root).Msg("Discovered files")
	return files, nil
}
