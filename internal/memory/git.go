package memory

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"line-translator/internal/extract"
)

// diffHunk is a group of removed and added lines from a diff.
type diffHunk struct {
	removed []string
	added   []string
}

// GitPairs collects pairs from the files under path that changed between two
// git refs, treating removed lines as sources and added lines as their
// translations.
func GitPairs(ctx context.Context, ex *extract.Extractor, repoRoot, base, target, path string) ([]Pair, error) {
	files, err := changedFiles(ctx, repoRoot, base, target, path)
	if err != nil {
		return nil, err
	}
	log.Info().Int("files", len(files)).Msg("Found changed files in git diff")

	var pairs []Pair
	for _, file := range files {
		out, err := git(ctx, repoRoot, "diff", "-U0", base, target, "--", file)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Failed to diff file")
			continue
		}
		for _, h := range parseHunks(out) {
			pairs = append(pairs, Align(ex, h.removed, h.added)...)
		}
	}
	return pairs, nil
}

func changedFiles(ctx context.Context, repoRoot, base, target, path string) ([]string, error) {
	out, err := git(ctx, repoRoot, "diff", "--name-only", base, target, "--", path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// parseHunks groups unified diff output into hunks of removed/added lines.
func parseHunks(diff string) []diffHunk {
	var hunks []diffHunk
	var current diffHunk
	inHunk := false

	flush := func() {
		if inHunk && (len(current.removed) > 0 || len(current.added) > 0) {
			hunks = append(hunks, current)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(diff))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "diff "), strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			continue
		case strings.HasPrefix(line, "@@"):
			flush()
			current = diffHunk{}
			inHunk = true
		case !inHunk:
			continue
		case strings.HasPrefix(line, "-"):
			current.removed = append(current.removed, line[1:])
		case strings.HasPrefix(line, "+"):
			current.added = append(current.added, line[1:])
		}
	}
	flush()

	return hunks
}
