package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkgrab/internal/model"
)

// SimpleWriter outputs a plain text summary for terminal display.
type SimpleWriter struct {
	baseWriter

	// showLinks appends the full link list.
	showLinks bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithLinks makes the writer list every collected link.
func WithLinks(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showLinks = show
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary.
func (w *SimpleWriter) Write(s *model.RunSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n                       LINKGRAB RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Started:       %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Elapsed:       %.2fs\n", s.Elapsed.Seconds())
	fmt.Fprintf(&sb, "Include:       %s\n", keywordsText(s.Include))
	fmt.Fprintf(&sb, "Exclude:       %s\n", keywordsText(s.Exclude))
	fmt.Fprintf(&sb, "Processed:     %d (%d completed, %d failed)\n", s.Processed, s.Completed, s.Failed)
	fmt.Fprintf(&sb, "Unique links:  %d\n", s.UniqueLinks)
	if s.OutputFile != "" {
		fmt.Fprintf(&sb, "Saved to:      %s\n", s.OutputFile)
	}
	sb.WriteString("\n")

	if len(s.Pages) > 0 {
		sb.WriteString("PAGES\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		for _, p := range s.Pages {
			if p.Status == model.StatusCompleted {
				fmt.Fprintf(&sb, "  [OK]   %s  found=%d new=%d (%.2fs)\n", p.URL, p.Found, p.New, p.Elapsed.Seconds())
				continue
			}
			fmt.Fprintf(&sb, "  [FAIL] %s  %s: %s\n", p.URL, p.Status, p.Error)
		}
		sb.WriteString("\n")
	}

	if w.showLinks && len(s.Links) > 0 {
		sb.WriteString("LINKS\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		for _, l := range s.Links {
			sb.WriteString("  " + l + "\n")
		}
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}
