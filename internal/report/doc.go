// Package report writes the results of a run.
//
// SaveLinks writes the collected link set to "{count}_links_output.txt",
// one URL per line in byte order. The run summary can additionally be
// rendered by one of the Writer implementations:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: JSON for other tools
//   - MarkdownWriter: GitHub flavored Markdown
package report
