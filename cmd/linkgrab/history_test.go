package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/linkgrab/internal/database"
	"github.com/nao1215/linkgrab/internal/model"
)

// seedArchive records n runs in a new archive under dir.
func seedArchive(t *testing.T, dir string, n int) {
	t.Helper()

	a, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer a.Close()

	for i := 0; i < n; i++ {
		agg := model.NewAggregateResult()
		agg.Merge(model.NewPageResult("https://example.com/", model.NewLinkSet("https://example.com/a"), time.Millisecond))
		agg.Merge(model.NewFailedResult("https://example.org/", model.StatusFetchFailed, errors.New("timeout"), time.Second))
		s := model.NewRunSummary(agg, []string{"a"}, nil, "/tmp/1_links_output.txt")
		if _, err := a.SaveRun(context.Background(), s); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}
}

func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	flag := cmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("expected limit flag")
	}
	if flag.Shorthand != "n" {
		t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
	}
	if flag.DefValue != "20" {
		t.Errorf("expected default '20', got %q", flag.DefValue)
	}
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("no archive yet", func(t *testing.T) {
		t.Parallel()

		out, err := runHistory(t, "--archive-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No archived runs found.") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("lists runs newest first", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedArchive(t, dir, 3)

		out, err := runHistory(t, "--archive-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Archived runs (3):") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if strings.Index(out, "\n  3 ") > strings.Index(out, "\n  1 ") {
			t.Errorf("expected run 3 before run 1:\n%s", out)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedArchive(t, dir, 3)

		out, err := runHistory(t, "--archive-dir", dir, "-n", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Archived runs (1):") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("shows one run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedArchive(t, dir, 1)

		out, err := runHistory(t, "--archive-dir", dir, "--show", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range []string{
			"Run #1",
			"Processed:    2 (1 completed, 1 failed)",
			"[completed] https://example.com/  found=1 new=1",
			"[fetch_failed] https://example.org/  timeout",
			"  https://example.com/a",
		} {
			if !strings.Contains(out, s) {
				t.Errorf("expected output to contain %q, got:\n%s", s, out)
			}
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedArchive(t, dir, 1)

		_, err := runHistory(t, "--archive-dir", dir, "--show", "99")
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestShortFingerprint(t *testing.T) {
	t.Parallel()

	if got := shortFingerprint("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("unexpected %q", got)
	}
	if got := shortFingerprint("abc"); got != "abc" {
		t.Errorf("unexpected %q", got)
	}
}
