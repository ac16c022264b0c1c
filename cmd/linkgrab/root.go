package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkgrab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkgrab",
		Short: "Collect and filter the links of web pages",
		Long: `linkgrab fetches a list of web pages in parallel, extracts every
hyperlink, keeps the ones that match your include/exclude keywords and
saves the deduplicated set to {count}_links_output.txt.

Run 'linkgrab grab' without URLs for the interactive menu.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", "text", "Log output format (text or json)")

	cmd.AddCommand(NewGrabCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
