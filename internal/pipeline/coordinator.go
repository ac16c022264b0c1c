package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nao1215/linkgrab/internal/filter"
	"github.com/nao1215/linkgrab/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default size of the worker pool.
const DefaultWorkers = 10

// Event is a progress notification for one processed seed.
type Event struct {
	// URL is the seed URL.
	URL string

	// Status is the terminal state of the seed's task.
	Status model.PageStatus

	// Found is the number of links the page contributed after filtering.
	Found int

	// New is how many of those links were not yet in the aggregate when the
	// result was merged. It depends on completion order.
	New int

	// Total is the aggregate size after the merge.
	Total int

	// Err is the failure, if any.
	Err error

	// Elapsed is the time spent on this seed.
	Elapsed time.Duration

	// Done is the number of seeds processed so far in this run.
	Done int

	// Seeds is the number of seeds in the run, or 0 when unknown.
	Seeds int
}

// ProgressFunc receives progress events. It is always called from the
// goroutine that drains results, never concurrently.
type ProgressFunc func(Event)

// Coordinator runs tasks for a list of seeds in parallel.
type Coordinator struct {
	task     *Task
	workers  int
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers sets the maximum number of concurrent tasks.
// Default is 10 if not specified. Non-positive values are ignored.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Coordinator) {
		c.progress = fn
	}
}

// NewCoordinator creates a Coordinator whose tasks use fetcher.
func NewCoordinator(fetcher Fetcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		workers: DefaultWorkers,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.task = NewTask(fetcher, c.logger)

	return c
}

// Workers returns the pool size.
func (c *Coordinator) Workers() int {
	return c.workers
}

// Run processes every distinct seed and returns the merged result.
//
// Exactly one PageResult is merged per distinct seed, including seeds whose
// task failed or never started because ctx was cancelled. Run returns once
// every task has finished.
func (c *Coordinator) Run(ctx context.Context, seeds []string, policy filter.Policy) *model.AggregateResult {
	agg := model.NewAggregateResult()
	seeds = distinct(seeds)

	c.logger.Info("starting run",
		"seeds", len(seeds),
		"workers", c.workers,
		"policy", policy.String(),
	)

	results := make(chan *model.PageResult)

	// A task never returns an error, so one failure cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(c.workers)

	go func() {
		for _, seed := range seeds {
			g.Go(func() error {
				results <- c.runTask(ctx, seed, policy)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // tasks always return nil
		close(results)
	}()

	for result := range results {
		added := agg.Merge(result)
		c.notify(result, added, agg, len(seeds))
	}

	agg.Elapsed = time.Since(agg.StartedAt)

	c.logger.Info("run complete",
		"processed", agg.Processed.Len(),
		"failed", agg.Failed,
		"links", agg.Links.Len(),
		"elapsed", agg.Elapsed,
	)

	return agg
}

// RunOne processes a single seed on the calling goroutine and merges the
// result into agg. It is used when seeds arrive one at a time.
func (c *Coordinator) RunOne(ctx context.Context, seed string, policy filter.Policy, agg *model.AggregateResult) Event {
	result := c.runTask(ctx, seed, policy)
	added := agg.Merge(result)
	agg.Elapsed = time.Since(agg.StartedAt)
	return c.notify(result, added, agg, 0)
}

// runTask runs the task for seed, converting a panic or a cancelled
// context into a StatusTaskFailed result.
func (c *Coordinator) runTask(ctx context.Context, seed string, policy filter.Policy) (result *model.PageResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := &TaskError{URL: seed, Err: fmt.Errorf("%w: %v", ErrTaskPanic, r)}
			c.logger.Error("task panicked",
				"url", seed,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			result = model.NewFailedResult(seed, model.StatusTaskFailed, err, time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		c.logger.Debug("skipping task, run cancelled", "url", seed)
		return model.NewFailedResult(seed, model.StatusTaskFailed, &TaskError{URL: seed, Err: err}, 0)
	}

	return c.task.Do(ctx, seed, policy)
}

// notify builds the progress event for result and hands it to the callback.
func (c *Coordinator) notify(result *model.PageResult, added int, agg *model.AggregateResult, seeds int) Event {
	ev := Event{
		URL:     result.URL,
		Status:  result.Status,
		Found:   result.Links.Len(),
		New:     added,
		Total:   agg.Links.Len(),
		Err:     result.Err,
		Elapsed: result.Elapsed,
		Done:    agg.Processed.Len(),
		Seeds:   seeds,
	}
	if c.progress != nil {
		c.progress(ev)
	}
	return ev
}

// distinct drops repeated seeds, keeping first appearances in order.
func distinct(seeds []string) []string {
	seen := make(map[string]struct{}, len(seeds))
	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
