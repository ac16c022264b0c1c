package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/linkgrab/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs the summary as GitHub flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary.
func (w *MarkdownWriter) Write(s *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writePages(md, s)
	w.writeLinks(md, s)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [linkgrab](https://github.com/nao1215/linkgrab)*")

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("linkgrab Run Summary")
	md.PlainText("")

	rows := [][]string{
		{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Elapsed", fmt.Sprintf("%.2fs", s.Elapsed.Seconds())},
		{"Include", keywordsText(s.Include)},
		{"Exclude", keywordsText(s.Exclude)},
		{"Processed", strconv.Itoa(s.Processed)},
		{"Completed", strconv.Itoa(s.Completed)},
		{"Failed", strconv.Itoa(s.Failed)},
		{"Unique links", strconv.Itoa(s.UniqueLinks)},
	}
	if s.OutputFile != "" {
		rows = append(rows, []string{"Saved to", "`" + s.OutputFile + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case s.Processed == 0:
		md.Note("No URLs were processed.")
	case s.Failed == s.Processed:
		md.Cautionf("All %d URL(s) failed.", s.Failed)
	case s.Failed > 0:
		md.Warningf("%d of %d URL(s) failed.", s.Failed, s.Processed)
	default:
		md.Tip("Every URL was processed successfully.")
	}
	md.PlainText("")

	if s.Processed > 0 {
		w.writePieChart(md, s)
	}
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.RunSummary) {
	counts := map[model.PageStatus]uint64{}
	for _, p := range s.Pages {
		counts[p.Status]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcomes"),
		piechart.WithShowData(true),
	)
	for _, st := range []model.PageStatus{model.StatusCompleted, model.StatusFetchFailed, model.StatusTaskFailed} {
		if counts[st] > 0 {
			chart.LabelAndIntValue(st.String(), counts[st])
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Pages")
	md.PlainText("")

	if len(s.Pages) == 0 {
		md.PlainText("No pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Pages))
	for i, p := range s.Pages {
		status := "✅ " + p.Status.String()
		if p.Status != model.StatusCompleted {
			status = "❌ " + p.Status.String()
		}
		errText := p.Error
		if errText == "" {
			errText = "-"
		}
		rows[i] = []string{
			p.URL,
			status,
			strconv.Itoa(p.Found),
			strconv.Itoa(p.New),
			fmt.Sprintf("%.2fs", p.Elapsed.Seconds()),
			truncateString(errText, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Found", "New", "Elapsed", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Links")
	md.PlainText("")

	if len(s.Links) == 0 {
		md.PlainText("No links were collected.")
		md.PlainText("")
		return
	}

	md.Details(strconv.Itoa(len(s.Links))+" links", "\n"+joinLines(s.Links)+"\n")
	md.PlainText("")
}

func joinLines(lines []string) string {
	return "- " + strings.Join(lines, "\n- ")
}

// truncateString truncates s to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
