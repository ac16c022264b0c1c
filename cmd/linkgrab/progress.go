package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/linkgrab/internal/crawler"
	applog "github.com/nao1215/linkgrab/internal/log"
	"github.com/nao1215/linkgrab/internal/model"
	"github.com/nao1215/linkgrab/internal/pipeline"
)

// progressPrinter writes one console line per processed seed.
// The coordinator calls it from a single goroutine.
type progressPrinter struct {
	out io.Writer
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

func (p *progressPrinter) print(ev pipeline.Event) {
	fmt.Fprintln(p.out, progressLine(ev))
}

// progressLine renders an event of the parallel mode.
func progressLine(ev pipeline.Event) string {
	switch {
	case ev.Status == model.StatusFetchFailed:
		return fmt.Sprintf("⚠️ %s: fetch failed: %s", ev.URL, failureText(ev.Err))
	case ev.Status == model.StatusTaskFailed:
		return fmt.Sprintf("❌ %s: task failed: %s", ev.URL, failureText(ev.Err))
	case ev.Found == 0:
		return fmt.Sprintf("ℹ️ %s: No matching links found (%.2fs)", ev.URL, ev.Elapsed.Seconds())
	default:
		return fmt.Sprintf("✅ %s: Found %d links (%d new) in %.2fs", ev.URL, ev.Found, ev.New, ev.Elapsed.Seconds())
	}
}

// manualLine renders an event of the manual entry mode, where the URL was
// just echoed.
func manualLine(ev pipeline.Event) string {
	switch {
	case ev.Status == model.StatusFetchFailed:
		return "⚠️ Fetch failed: " + failureText(ev.Err)
	case ev.Status == model.StatusTaskFailed:
		return "❌ Task failed: " + failureText(ev.Err)
	case ev.Found == 0:
		return fmt.Sprintf("ℹ️ No matching links found (took %.2fs)", ev.Elapsed.Seconds())
	default:
		return fmt.Sprintf("✅ Found %d links (%d new) in %.2fs", ev.Found, ev.New, ev.Elapsed.Seconds())
	}
}

// failureText describes err without repeating the URL and with
// credentials masked.
func failureText(err error) string {
	if err == nil {
		return "unknown error"
	}

	var fe *crawler.FetchError
	if errors.As(err, &fe) {
		if fe.Reason == crawler.ReasonBadStatus {
			return fmt.Sprintf("status code %d", fe.StatusCode)
		}
		if fe.Err != nil {
			return applog.RedactText(fmt.Sprintf("%s: %v", fe.Reason, fe.Err))
		}
		return fe.Reason.String()
	}

	var te *pipeline.TaskError
	if errors.As(err, &te) && te.Err != nil {
		return applog.RedactText(te.Err.Error())
	}
	return applog.RedactText(err.Error())
}
