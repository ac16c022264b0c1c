package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/linkgrab/internal/model"
)

// ErrNoLinks is returned by SaveLinks for an empty link set.
var ErrNoLinks = errors.New("no links were collected")

// LinksFileName returns the output file name for a set of count links.
func LinksFileName(count int) string {
	return fmt.Sprintf("%d_links_output.txt", count)
}

// SaveLinks writes links to LinksFileName(links.Len()) inside dir, one per
// line in lexicographic byte order, each terminated by "\n". An existing
// file of the same name is overwritten. The directory is created if
// needed. It returns the absolute path of the written file.
func SaveLinks(dir string, links model.LinkSet) (string, error) {
	if links.Len() == 0 {
		return "", ErrNoLinks
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(dir, LinksFileName(links.Len())))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // path is built from the user's output directory
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, link := range links.Sorted() {
		if _, err := w.WriteString(link + "\n"); err != nil {
			_ = f.Close() //nolint:errcheck // the write error is reported
			return "", fmt.Errorf("failed to write output file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close() //nolint:errcheck // the write error is reported
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}

	return path, nil
}
