package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/linkgrab/internal/config"
	"github.com/nao1215/linkgrab/internal/filter"
	applog "github.com/nao1215/linkgrab/internal/log"
	"github.com/nao1215/linkgrab/internal/tor"
	"github.com/spf13/cobra"
)

// ErrRunIncomplete is returned with --strict when a seed failed or the
// links could not be saved.
var ErrRunIncomplete = errors.New("run incomplete")

// NewGrabCmd creates the grab command.
func NewGrabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grab [url...]",
		Short: "Fetch pages and save the links they contain",
		Long: `Grab fetches every seed URL, extracts the links of each page, keeps the
links that pass the keyword filters and saves the deduplicated set to
{count}_links_output.txt in the output directory.

Seeds given as arguments or with --file are processed in parallel.
Without seeds (or with --interactive) a menu asks for filters and lets
you load a file or enter URLs one by one.

Filters:
  --include  keep links containing at least one keyword
  --exclude  drop links containing any keyword
Keywords are comma-separated and matched case-insensitively.

Examples:
  # Grab the links of two pages
  linkgrab grab https://example.com/ https://example.org/

  # Load seeds from a file and keep blog links only
  linkgrab grab -f urls.txt --include blog --exclude draft

  # Interactive menu
  linkgrab grab -i

  # Fetch .onion pages through an embedded Tor daemon
  linkgrab grab --tor http://<address>.onion/

  # Write a Markdown summary and archive the run
  linkgrab grab -f urls.txt --report markdown --report-file summary.md --archive

Configuration file (.linkgrab.yaml) example:
  workers: 20
  include: [blog]
  sites:
    intranet.example.com:
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runGrabCmd,
	}

	// Seed input
	cmd.Flags().StringP("file", "f", "",
		"Load seed URLs from a newline-delimited file")
	cmd.Flags().BoolP("interactive", "i", false,
		"Use the interactive menu")

	// Filters
	cmd.Flags().String(config.FlagInclude, "",
		"Comma-separated keywords a link must contain (any of)")
	cmd.Flags().String(config.FlagExclude, "",
		"Comma-separated keywords a link must not contain")

	// Fetch behavior
	cmd.Flags().IntP(config.FlagWorkers, "w", config.DefaultWorkers,
		"Number of pages fetched in parallel")
	cmd.Flags().DurationP(config.FlagTimeout, "t", config.DefaultTimeout,
		"Timeout of each request")
	cmd.Flags().String(config.FlagUserAgent, config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().Int64(config.FlagMaxBodySize, config.DefaultMaxBodySize,
		"Maximum number of bytes read from each response")
	cmd.Flags().String(config.FlagProxy, "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().Bool(config.FlagTor, false,
		"Start an embedded Tor daemon and fetch every page through it")
	cmd.Flags().Duration(config.FlagTorTimeout, config.DefaultTorStartupTimeout,
		"Timeout for the embedded Tor daemon to bootstrap")

	// Output
	cmd.Flags().StringP(config.FlagOutputDir, "d", config.DefaultOutputDir,
		"Directory the link file is written to")
	cmd.Flags().String("report", "",
		"Write a run summary: text, json or markdown")
	cmd.Flags().String("report-file", "",
		"Write the run summary to this file instead of stdout")
	cmd.Flags().Bool("archive", false,
		"Record the run in the SQLite archive")
	cmd.Flags().String("archive-dir", config.XDGDataDir(),
		"Directory of the archive database")
	cmd.Flags().Bool("strict", false,
		"Exit with status 1 when a seed failed or the links could not be saved")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkgrab.yaml in current, XDG config or home directory)")

	return cmd
}

func runGrabCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	switch {
	case cfg.Tor:
		daemon, err := startTor(ctx, cfg, logger, out)
		if err != nil {
			return err
		}
		defer func() {
			logger.Info("stopping embedded Tor daemon")
			if err := daemon.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor daemon", "error", err)
			}
		}()
	case cfg.Proxy != "":
		checkProxy(ctx, cfg.Proxy, logger, out)
	}

	g, err := newGrabber(cfg, logger, cmd.InOrStdin(), out)
	if err != nil {
		return err
	}
	return g.run(ctx)
}

// startTor launches the embedded Tor daemon and points cfg.Proxy at its
// SOCKS port. The caller stops the returned daemon.
func startTor(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) (*tor.Daemon, error) {
	fmt.Fprintln(out, "🧅 Starting embedded Tor daemon...")
	fmt.Fprintln(out, "This may take a few minutes while Tor bootstraps.")

	daemon := tor.NewDaemon(tor.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := daemon.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	addr, err := daemon.ProxyAddress()
	if err != nil {
		_ = daemon.Stop() //nolint:errcheck // Best effort cleanup
		return nil, err
	}
	if status := tor.CheckProxy(ctx, addr); status != tor.ProxyStatusOK {
		_ = daemon.Stop() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("embedded Tor proxy check failed: %w", status.Err())
	}

	logger.Info("embedded Tor daemon started",
		"socksAddr", addr,
		"controlAddr", daemon.ControlAddr(),
	)
	fmt.Fprintf(out, "🧅 Tor is ready (SOCKS proxy: %s)\n", addr)

	cfg.Proxy = addr
	return daemon, nil
}

// checkProxy warns when the configured proxy does not answer as SOCKS5.
// The run still starts; each fetch then fails on its own.
func checkProxy(ctx context.Context, addr string, logger *slog.Logger, out io.Writer) {
	status := tor.CheckProxy(ctx, addr)
	if status == tor.ProxyStatusOK {
		logger.Debug("proxy check passed", "proxy", addr)
		return
	}
	logger.Warn("proxy check failed", "proxy", addr, "status", status.String())
	fmt.Fprintf(out, "⚠️ Proxy %s: %s\n", addr, status)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormat retrieves the log format from the command or its parent.
func getLogFormat(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return config.LogFormatText
		}
	}
	return format
}

// buildConfig creates a Config from flags and the configuration file.
// Flags the user set explicitly win over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	cfg.SeedFile, err = flags.GetString("file")
	if err != nil {
		return nil, err
	}
	cfg.Interactive, err = flags.GetBool("interactive")
	if err != nil {
		return nil, err
	}

	include, err := flags.GetString(config.FlagInclude)
	if err != nil {
		return nil, err
	}
	cfg.Include = filter.ParseKeywords(include).List()

	exclude, err := flags.GetString(config.FlagExclude)
	if err != nil {
		return nil, err
	}
	cfg.Exclude = filter.ParseKeywords(exclude).List()

	cfg.Workers, err = flags.GetInt(config.FlagWorkers)
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = flags.GetDuration(config.FlagTimeout)
	if err != nil {
		return nil, err
	}
	cfg.UserAgent, err = flags.GetString(config.FlagUserAgent)
	if err != nil {
		return nil, err
	}
	cfg.MaxBodySize, err = flags.GetInt64(config.FlagMaxBodySize)
	if err != nil {
		return nil, err
	}
	cfg.Proxy, err = flags.GetString(config.FlagProxy)
	if err != nil {
		return nil, err
	}
	cfg.Tor, err = flags.GetBool(config.FlagTor)
	if err != nil {
		return nil, err
	}
	cfg.TorStartupTimeout, err = flags.GetDuration(config.FlagTorTimeout)
	if err != nil {
		return nil, err
	}
	cfg.OutputDir, err = flags.GetString(config.FlagOutputDir)
	if err != nil {
		return nil, err
	}

	cfg.ReportFormat, err = flags.GetString("report")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = flags.GetString("report-file")
	if err != nil {
		return nil, err
	}
	cfg.Archive, err = flags.GetBool("archive")
	if err != nil {
		return nil, err
	}
	cfg.ArchiveDir, err = flags.GetString("archive-dir")
	if err != nil {
		return nil, err
	}
	cfg.Strict, err = flags.GetBool("strict")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogFormat = getLogFormat(cmd)

	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise a missing file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file, flags.Changed)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Seeds = args

	return cfg, nil
}

// setupLogger creates the redacting logger for the chosen format.
func setupLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	if format == config.LogFormatJSON {
		return applog.NewJSONLogger(w, verbose)
	}
	return applog.NewLogger(w, verbose)
}
