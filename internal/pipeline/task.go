package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/linkgrab/internal/crawler"
	"github.com/nao1215/linkgrab/internal/filter"
	"github.com/nao1215/linkgrab/internal/model"
)

// Fetcher retrieves one page. *crawler.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*crawler.Page, error)
}

// Task fetches a single seed URL and extracts its links.
// A Task holds no per-URL state and may be shared by all workers.
type Task struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewTask creates a Task. A nil logger means slog.Default().
func NewTask(fetcher Fetcher, logger *slog.Logger) *Task {
	if logger == nil {
		logger = slog.Default()
	}
	return &Task{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Do processes seed and always returns a result. Fetch failures yield
// StatusFetchFailed; extraction failures yield StatusTaskFailed.
func (t *Task) Do(ctx context.Context, seed string, policy filter.Policy) *model.PageResult {
	start := time.Now()

	t.logger.Debug("fetching", "url", seed)
	page, err := t.fetcher.Fetch(ctx, seed)
	if err != nil {
		t.logger.Warn("fetch failed", "url", seed, "error", err)
		return model.NewFailedResult(seed, model.StatusFetchFailed, err, time.Since(start))
	}

	t.logger.Debug("extracting",
		"url", seed,
		"bytes", len(page.Body),
		"content_type", page.ContentType,
	)
	links, stats, err := crawler.ExtractWithStats(page.URL, bytes.NewReader(page.Body), policy)
	if err != nil {
		taskErr := &TaskError{URL: seed, Err: err}
		t.logger.Error("extraction failed", "url", seed, "error", err)
		return model.NewFailedResult(seed, model.StatusTaskFailed, taskErr, time.Since(start))
	}

	elapsed := time.Since(start)
	t.logger.Debug("completed",
		"url", seed,
		"links", links.Len(),
		"anchors", stats.Anchors,
		"malformed", stats.Malformed,
		"filtered", stats.Filtered,
		"non_web", stats.NonWeb,
		"truncated", page.Truncated,
		"elapsed", elapsed,
	)

	return model.NewPageResult(seed, links, elapsed)
}
