package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single line of a seed file.
const maxLineSize = 1024 * 1024

// Source yields the seed URLs of a run.
type Source interface {
	Seeds(ctx context.Context) ([]string, error)
}

// FileSource reads newline-delimited seeds from a file.
type FileSource struct {
	Path string
}

// Seeds reads and normalizes the file's lines.
func (s FileSource) Seeds(ctx context.Context) ([]string, error) {
	if s.Path == "" {
		return nil, ErrEmptyPath
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seeds, err := ReadSeeds(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", s.Path, err)
	}
	return seeds, nil
}

// ListSource yields a fixed list, typically command line arguments.
type ListSource []string

// Seeds returns the normalized list.
func (s ListSource) Seeds(_ context.Context) ([]string, error) {
	return Normalize(s), nil
}

// ReadSeeds reads one seed per line from r. A leading UTF-8 byte order mark
// and Windows line endings are tolerated.
func ReadSeeds(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	first := true
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return Normalize(lines), nil
}

// Normalize trims every entry, drops blank ones and collapses duplicates,
// keeping the order of first appearance.
func Normalize(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Load returns the seeds of src, or ErrNoSeeds when there are none.
func Load(ctx context.Context, src Source) ([]string, error) {
	seeds, err := src.Seeds(ctx)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	return seeds, nil
}
