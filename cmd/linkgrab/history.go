package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkgrab/internal/config"
	"github.com/nao1215/linkgrab/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed without -n.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs",
		Long: `History lists the runs recorded with 'linkgrab grab --archive', newest first.

Each row shows the run ID, start time, processed/failed seed counts, the
number of unique links and the first characters of the link-set
fingerprint. Runs that collected exactly the same links share a
fingerprint.

Examples:
  # List the last 20 runs
  linkgrab history

  # List the last 5 runs
  linkgrab history -n 5

  # Show the pages and links of run 3
  linkgrab history --show 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Number of runs to list (0 lists every run)")
	cmd.Flags().Int64("show", 0,
		"Show the pages and links of the run with this ID")
	cmd.Flags().String("archive-dir", config.XDGDataDir(),
		"Directory of the archive database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	show, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("archive-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dir, database.Options{CreateIfNotExists: false})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No archived runs found.")
		fmt.Fprintln(out, "\nUse 'linkgrab grab --archive' to record runs.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if show > 0 {
		return showRun(ctx, out, db, show)
	}
	return listRuns(ctx, out, db, limit)
}

func listRuns(ctx context.Context, out io.Writer, db *database.Archive, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No archived runs found.")
		fmt.Fprintln(out, "\nUse 'linkgrab grab --archive' to record runs.")
		return nil
	}

	fmt.Fprintf(out, "Archived runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-9s  %-6s  %-6s  %s\n", "ID", "Started", "Processed", "Failed", "Links", "Fingerprint")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-9d  %-6d  %-6d  %s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Processed,
			r.Failed,
			r.UniqueLinks,
			shortFingerprint(r.Fingerprint),
		)
	}
	fmt.Fprintln(out, "\nUse 'linkgrab history --show <id>' to see the pages and links of a run.")

	return nil
}

func showRun(ctx context.Context, out io.Writer, db *database.Archive, id int64) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	pages, err := db.GetRunPages(ctx, id)
	if err != nil {
		return err
	}
	links, err := db.GetRunLinks(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run #%d\n", run.ID)
	fmt.Fprintf(out, "  Started:      %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "  Elapsed:      %.2fs\n", run.Elapsed.Seconds())
	fmt.Fprintf(out, "  Include:      %s\n", keywordList(run.Include))
	fmt.Fprintf(out, "  Exclude:      %s\n", keywordList(run.Exclude))
	fmt.Fprintf(out, "  Processed:    %d (%d completed, %d failed)\n", run.Processed, run.Completed, run.Failed)
	fmt.Fprintf(out, "  Unique links: %d\n", run.UniqueLinks)
	fmt.Fprintf(out, "  Fingerprint:  %s\n", run.Fingerprint)
	if run.OutputFile != "" {
		fmt.Fprintf(out, "  Saved to:     %s\n", run.OutputFile)
	}

	fmt.Fprintln(out, "\nPages:")
	for _, p := range pages {
		if p.Error != "" {
			fmt.Fprintf(out, "  [%s] %s  %s\n", p.Status, p.URL, p.Error)
			continue
		}
		fmt.Fprintf(out, "  [%s] %s  found=%d new=%d\n", p.Status, p.URL, p.Found, p.New)
	}

	fmt.Fprintln(out, "\nLinks:")
	for _, l := range links.Sorted() {
		fmt.Fprintf(out, "  %s\n", l)
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func keywordList(kw []string) string {
	if len(kw) == 0 {
		return "none"
	}
	return strings.Join(kw, ", ")
}
