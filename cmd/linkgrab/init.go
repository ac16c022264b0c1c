package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/linkgrab/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/linkgrab.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a linkgrab configuration file",
		Long: `Init writes a commented .linkgrab.yaml template to the current directory.

The template documents every option that can be set from the file:
worker count, timeout, User-Agent, body size limit, SOCKS5 proxy,
include/exclude keywords, extra headers (global and per host) and the
output directory. Flags given on the command line override file values.

Examples:
  # Create .linkgrab.yaml in the current directory
  linkgrab init

  # Create the file at a specific path
  linkgrab init -o ~/.config/linkgrab/config.yaml

  # Overwrite an existing file
  linkgrab init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/linkgrab.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - Include/exclude keywords")
	fmt.Fprintln(out, "  - Request headers per host")
	fmt.Fprintln(out, "  - Worker count and timeout")

	return nil
}
