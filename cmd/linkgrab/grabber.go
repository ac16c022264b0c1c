package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/nao1215/linkgrab/internal/config"
	"github.com/nao1215/linkgrab/internal/crawler"
	"github.com/nao1215/linkgrab/internal/database"
	"github.com/nao1215/linkgrab/internal/filter"
	"github.com/nao1215/linkgrab/internal/model"
	"github.com/nao1215/linkgrab/internal/pipeline"
	"github.com/nao1215/linkgrab/internal/report"
	"github.com/nao1215/linkgrab/internal/seed"
	"github.com/nao1215/linkgrab/internal/tor"
)

const separator = "========================================"

// grabber runs one grab session: it collects seeds, runs the pipeline and
// saves the result. Console output goes to out, logs to the logger.
type grabber struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher pipeline.Fetcher
	in      io.Reader
	out     io.Writer

	// seedErr is set when the seed file could not be read.
	seedErr bool
}

func newGrabber(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) (*grabber, error) {
	client, err := crawler.NewHTTPClient(crawler.ClientOptions{
		ProxyAddress:    cfg.Proxy,
		MaxConnsPerHost: cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	fetcher := crawler.NewFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithHostHeaders(cfg.HeadersFor),
		crawler.WithFetcherLogger(logger),
	)

	return &grabber{
		cfg:     cfg,
		logger:  logger,
		fetcher: fetcher,
		in:      in,
		out:     out,
	}, nil
}

// interactive reports whether the session uses the menu.
func (g *grabber) interactive() bool {
	return g.cfg.Interactive || (len(g.cfg.Seeds) == 0 && g.cfg.SeedFile == "")
}

func (g *grabber) run(ctx context.Context) error {
	var agg *model.AggregateResult
	if g.interactive() {
		agg = g.runInteractive(ctx)
	} else {
		agg = g.runSeeds(ctx)
	}
	return g.finish(ctx, agg)
}

// runSeeds processes the seeds from the command line and --file.
func (g *grabber) runSeeds(ctx context.Context) *model.AggregateResult {
	var seeds []string
	if g.cfg.SeedFile != "" {
		// An unreadable file is reported and the run goes on without it.
		if fromFile, err := g.loadFile(ctx, g.cfg.SeedFile); err == nil {
			seeds = fromFile
		}
	}
	seeds = seed.Normalize(append(seeds, g.cfg.Seeds...))

	if len(seeds) == 0 {
		if g.cfg.SeedFile == "" {
			fmt.Fprintln(g.out, "ℹ️ No valid URLs found")
		}
		return model.NewAggregateResult()
	}
	return g.runParallel(ctx, seeds)
}

// loadFile reads seeds from path and reports read errors on the console.
func (g *grabber) loadFile(ctx context.Context, path string) ([]string, error) {
	seeds, err := seed.Load(ctx, seed.FileSource{Path: path})
	switch {
	case errors.Is(err, seed.ErrNoSeeds):
		fmt.Fprintln(g.out, "ℹ️ No valid URLs found in the file")
	case err != nil:
		g.seedErr = true
		g.logger.Error("failed to read seed file", "path", path, "error", err)
		fmt.Fprintf(g.out, "❌ Error reading file: %v\n", err)
	}
	return seeds, err
}

// runParallel processes seeds with the worker pool and prints a summary.
func (g *grabber) runParallel(ctx context.Context, seeds []string) *model.AggregateResult {
	fmt.Fprintf(g.out, "\n🔍 Processing %d URLs in parallel (workers: %d)...\n", len(seeds), g.cfg.Workers)
	g.warnOnionSeeds(seeds)

	c := pipeline.NewCoordinator(g.fetcher,
		pipeline.WithWorkers(g.cfg.Workers),
		pipeline.WithLogger(g.logger),
		pipeline.WithProgress(newProgressPrinter(g.out).print),
	)
	agg := c.Run(ctx, seeds, g.cfg.Policy())

	fmt.Fprintf(g.out, "\n⚡ Processed %d URLs in %.2f seconds\n", agg.Processed.Len(), agg.Elapsed.Seconds())
	fmt.Fprintf(g.out, "📊 Total unique links collected: %d\n", agg.Links.Len())
	return agg
}

// warnOnionSeeds points out .onion seeds that will fail without Tor.
func (g *grabber) warnOnionSeeds(seeds []string) {
	if g.cfg.Proxy != "" {
		return
	}
	if onion := tor.OnionSeeds(seeds); len(onion) > 0 {
		g.logger.Warn("onion seeds without a proxy", "count", len(onion))
		fmt.Fprintf(g.out, "⚠️ %d .onion URL(s) can only be fetched with --tor or --proxy\n", len(onion))
	}
}

// runInteractive asks for the filters and the input method.
func (g *grabber) runInteractive(ctx context.Context) *model.AggregateResult {
	p := seed.NewPrompter(g.in, g.out)

	fmt.Fprintln(g.out, "🌐 Link Grabber Tool 🌐")
	fmt.Fprintln(g.out, separator)

	include, err := p.Ask("Include links containing (leave empty for all):", strings.Join(g.cfg.Include, ","))
	if err != nil {
		return g.promptFailed(err)
	}
	g.cfg.Include = filter.ParseKeywords(include).List()

	exclude, err := p.Ask("Exclude links containing (leave empty for none):", strings.Join(g.cfg.Exclude, ","))
	if err != nil {
		return g.promptFailed(err)
	}
	g.cfg.Exclude = filter.ParseKeywords(exclude).List()

	fmt.Fprintln(g.out, "\n"+separator)
	fmt.Fprintln(g.out, "\nChoose input method:")
	fmt.Fprintln(g.out, "1. Load URLs from a text file (parallel processing)")
	fmt.Fprintln(g.out, "2. Other options")
	choice, err := p.Ask("Select option (1/2):", "2")
	if err != nil {
		return g.promptFailed(err)
	}

	switch choice {
	case "1":
		return g.runFileEntry(ctx, p)
	case "2":
	default:
		fmt.Fprintf(g.out, "❌ Invalid option: %s\n", choice)
		return model.NewAggregateResult()
	}

	fmt.Fprintln(g.out, "\nChoose input method:")
	fmt.Fprintln(g.out, "1. Enter URLs one by one manually")
	fmt.Fprintln(g.out, "2. Select a text file containing URLs (parallel processing)")
	sub, err := p.Ask("Select option (1/2):", "1")
	if err != nil {
		return g.promptFailed(err)
	}

	switch sub {
	case "1":
		return g.runManualEntry(ctx, p)
	case "2":
		return g.runFileEntry(ctx, p)
	default:
		fmt.Fprintf(g.out, "❌ Invalid option: %s\n", sub)
		return model.NewAggregateResult()
	}
}

// runFileEntry asks for a seed file and processes it in parallel.
func (g *grabber) runFileEntry(ctx context.Context, p *seed.Prompter) *model.AggregateResult {
	path, err := p.Ask("\nEnter the path of a text file containing URLs:", g.cfg.SeedFile)
	if err != nil {
		return g.promptFailed(err)
	}
	if path == "" {
		fmt.Fprintln(g.out, "❌ No file selected")
		return model.NewAggregateResult()
	}

	fmt.Fprintf(g.out, "\nSelected file: %s\n", path)
	seeds, err := g.loadFile(ctx, path)
	if err != nil {
		return model.NewAggregateResult()
	}

	fmt.Fprintf(g.out, "\n🔍 Found %d URLs in the file.\n", len(seeds))
	return g.runParallel(ctx, seeds)
}

// runManualEntry processes URLs one at a time as the user enters them.
func (g *grabber) runManualEntry(ctx context.Context, p *seed.Prompter) *model.AggregateResult {
	c := pipeline.NewCoordinator(g.fetcher,
		pipeline.WithWorkers(1),
		pipeline.WithLogger(g.logger),
	)
	policy := g.cfg.Policy()
	agg := model.NewAggregateResult()

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(g.out))
	s.Suffix = " fetching..."

	for ctx.Err() == nil {
		fmt.Fprintln(g.out, "\n"+separator)
		url, err := p.Next()
		if errors.Is(err, seed.ErrQuit) {
			break
		}
		if err != nil {
			g.logger.Error("failed to read URL", "error", err)
			break
		}

		fmt.Fprintf(g.out, "\n🔍 Scanning %s...\n", url)
		s.Start()
		ev := c.RunOne(ctx, url, policy, agg)
		s.Stop()
		fmt.Fprintln(g.out, manualLine(ev))

		if agg.Links.Len() == 0 {
			continue
		}
		fmt.Fprintf(g.out, "\n📊 Current total: %d unique links collected\n", agg.Links.Len())
		more, err := p.Confirm("\nAdd another URL?", true)
		if err != nil || !more {
			break
		}
	}
	return agg
}

func (g *grabber) promptFailed(err error) *model.AggregateResult {
	g.logger.Error("failed to read answer", "error", err)
	return model.NewAggregateResult()
}

// finish saves the links, writes the optional report and archive entry
// and decides the exit status.
func (g *grabber) finish(ctx context.Context, agg *model.AggregateResult) error {
	outputFile, saveErr := report.SaveLinks(g.cfg.OutputDir, agg.Links)
	switch {
	case errors.Is(saveErr, report.ErrNoLinks):
		fmt.Fprintln(g.out, "\nℹ️ No links were collected")
		saveErr = nil
	case saveErr != nil:
		g.logger.Error("failed to save links", "dir", g.cfg.OutputDir, "error", saveErr)
		fmt.Fprintf(g.out, "\n❌ Failed to save links: %v\n", saveErr)
	default:
		fmt.Fprintf(g.out, "\n🎉 Success! Saved %d links to '%s'\n", agg.Links.Len(), filepath.Base(outputFile))
		fmt.Fprintf(g.out, "📂 File location: %s\n", outputFile)
	}

	summary := model.NewRunSummary(agg, g.cfg.Include, g.cfg.Exclude, outputFile)

	if g.cfg.ReportFormat != config.ReportFormatNone {
		if err := g.writeReport(summary); err != nil {
			g.logger.Error("failed to write report", "error", err)
			fmt.Fprintf(g.out, "❌ Failed to write report: %v\n", err)
		}
	}

	if g.cfg.Archive {
		// The archive entry is still written after an interrupt.
		if err := g.archiveRun(context.WithoutCancel(ctx), summary); err != nil {
			g.logger.Error("failed to archive run", "dir", g.cfg.ArchiveDir, "error", err)
			fmt.Fprintf(g.out, "❌ Failed to archive run: %v\n", err)
		}
	}

	fmt.Fprintln(g.out, "\nThank you for using Link Grabber! 👋")

	if g.cfg.Strict && (summary.Incomplete() || saveErr != nil || g.seedErr) {
		return fmt.Errorf("%w: %d of %d URL(s) failed", ErrRunIncomplete, summary.Failed, summary.Processed)
	}
	return nil
}

// writeReport writes the run summary to stdout or the report file.
func (g *grabber) writeReport(summary *model.RunSummary) error {
	output := g.out
	if g.cfg.ReportFile != "" {
		dir := filepath.Dir(g.cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(g.cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w, err := report.NewWriter(g.cfg.ReportFormat, output, getVersion())
	if err != nil {
		return err
	}
	if _, err := w.Write(summary); err != nil {
		return err
	}

	if g.cfg.ReportFile != "" {
		fmt.Fprintf(g.out, "📝 Report written to %s\n", g.cfg.ReportFile)
	}
	return nil
}

// archiveRun records the run in the SQLite archive.
func (g *grabber) archiveRun(ctx context.Context, summary *model.RunSummary) error {
	db, err := database.Open(g.cfg.ArchiveDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, summary)
	if err != nil {
		return err
	}

	if prev, err := db.FindRunsByFingerprint(ctx, summary.Fingerprint); err == nil && len(prev) > 1 && summary.UniqueLinks > 0 {
		fmt.Fprintf(g.out, "🗄️ Run #%d archived (same links as run #%d)\n", id, prev[1])
	} else {
		fmt.Fprintf(g.out, "🗄️ Run #%d archived\n", id)
	}
	g.logger.Debug("run archived", "id", id, "path", db.Path())
	return nil
}
