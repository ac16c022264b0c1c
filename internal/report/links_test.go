package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/linkgrab/internal/model"
)

func TestLinksFileName(t *testing.T) {
	t.Parallel()

	if got := LinksFileName(42); got != "42_links_output.txt" {
		t.Errorf("LinksFileName(42) = %q", got)
	}
}

func TestSaveLinks(t *testing.T) {
	t.Parallel()

	t.Run("writes sorted links", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		links := model.NewLinkSet("https://b.example/", "https://a.example/z", "http://a.example/", "https://a.example/Z")

		path, err := SaveLinks(dir, links)
		if err != nil {
			t.Fatalf("SaveLinks() error = %v", err)
		}
		if path != filepath.Join(dir, "4_links_output.txt") {
			t.Errorf("unexpected path %q", path)
		}
		if !filepath.IsAbs(path) {
			t.Errorf("expected absolute path, got %q", path)
		}

		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		want := "http://a.example/\nhttps://a.example/Z\nhttps://a.example/z\nhttps://b.example/\n"
		if string(data) != want {
			t.Errorf("content = %q, want %q", data, want)
		}
	})

	t.Run("output is deterministic", func(t *testing.T) {
		t.Parallel()

		links := model.NewLinkSet("https://c.example/", "https://a.example/", "https://b.example/")

		first, err := SaveLinks(t.TempDir(), links)
		if err != nil {
			t.Fatalf("SaveLinks() error = %v", err)
		}
		second, err := SaveLinks(t.TempDir(), model.NewLinkSet(links.Sorted()...))
		if err != nil {
			t.Fatalf("SaveLinks() error = %v", err)
		}

		a, _ := os.ReadFile(first)  //nolint:errcheck,gosec // test file
		b, _ := os.ReadFile(second) //nolint:errcheck,gosec // test file
		if string(a) != string(b) {
			t.Errorf("outputs differ:\n%s\n---\n%s", a, b)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		existing := filepath.Join(dir, "1_links_output.txt")
		if err := os.WriteFile(existing, []byte("old content\nmore\n"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if _, err := SaveLinks(dir, model.NewLinkSet("https://new.example/")); err != nil {
			t.Fatalf("SaveLinks() error = %v", err)
		}
		data, _ := os.ReadFile(existing) //nolint:errcheck,gosec // test file
		if string(data) != "https://new.example/\n" {
			t.Errorf("expected overwritten content, got %q", data)
		}
	})

	t.Run("creates directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")
		if _, err := SaveLinks(dir, model.NewLinkSet("https://a.example/")); err != nil {
			t.Fatalf("SaveLinks() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "1_links_output.txt")); err != nil {
			t.Errorf("expected file in nested dir: %v", err)
		}
	})

	t.Run("empty set writes nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := SaveLinks(dir, model.NewLinkSet())
		if !errors.Is(err, ErrNoLinks) {
			t.Errorf("expected ErrNoLinks, got %v", err)
		}
		entries, _ := os.ReadDir(dir) //nolint:errcheck // test
		if len(entries) != 0 {
			t.Errorf("expected empty dir, got %d entries", len(entries))
		}
	})

	t.Run("unwritable directory", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "not-a-dir")
		if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}

		if _, err := SaveLinks(file, model.NewLinkSet("https://a.example/")); err == nil {
			t.Error("expected error when output dir is a file")
		}
	})
}
