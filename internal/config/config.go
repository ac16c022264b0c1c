package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/linkgrab/internal/crawler"
	"github.com/nao1215/linkgrab/internal/filter"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "linkgrab"

	// DefaultWorkers is the number of pages fetched concurrently.
	DefaultWorkers = 10

	// DefaultTimeout is the fixed timeout of every request.
	DefaultTimeout = crawler.DefaultTimeout

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = crawler.DefaultUserAgent

	// DefaultMaxBodySize limits how much of each response is read.
	DefaultMaxBodySize = crawler.DefaultMaxBodySize

	// DefaultOutputDir is where the link file is written.
	DefaultOutputDir = "."

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Report formats accepted by --report.
const (
	ReportFormatNone     = ""
	ReportFormatText     = "text"
	ReportFormatJSON     = "json"
	ReportFormatMarkdown = "markdown"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds every option of a grab run. It is filled from flags and the
// configuration file and passed down explicitly.
type Config struct {
	// Seeds are URLs given on the command line.
	Seeds []string

	// SeedFile is a newline-delimited file of seed URLs.
	SeedFile string

	// Interactive selects the menu-driven mode.
	Interactive bool

	// Workers is the size of the fetch worker pool.
	Workers int

	// Timeout is the fixed per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64

	// Proxy is an optional SOCKS5 proxy address in host:port form.
	Proxy string

	// Tor routes every request through an embedded Tor daemon.
	Tor bool

	// TorStartupTimeout bounds the bootstrap of the embedded daemon.
	TorStartupTimeout time.Duration

	// Include and Exclude are the keyword lists of the filter policy.
	Include []string
	Exclude []string

	// Headers are extra request headers sent to every host.
	Headers map[string]string

	// Sites holds per-host request settings from the configuration file.
	Sites map[string]SiteConfig

	// OutputDir is where the link file is written.
	OutputDir string

	// ReportFormat selects the optional run summary: "", text, json or markdown.
	ReportFormat string

	// ReportFile is where the summary is written. Empty means stdout.
	ReportFile string

	// Archive records the run in the SQLite archive.
	Archive bool

	// ArchiveDir is the directory holding the archive database.
	ArchiveDir string

	// Strict turns failed seeds or a failed save into a non-zero exit status.
	Strict bool

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is text or json.
	LogFormat string

	// ConfigFilePath is the configuration file given with --config.
	ConfigFilePath string
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Workers:           DefaultWorkers,
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		OutputDir:         DefaultOutputDir,
		ArchiveDir:        XDGDataDir(),
		LogFormat:         LogFormatText,
	}
}

// XDGDataDir returns the XDG data directory for linkgrab.
// On Linux: ~/.local/share/linkgrab
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linkgrab.
// On Linux: ~/.config/linkgrab
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate returns the first invalid setting found.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Tor && c.Proxy != "" {
		return ErrTorWithProxy
	}
	if c.Tor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorTimeout
	}
	switch c.ReportFormat {
	case ReportFormatNone, ReportFormatText, ReportFormatJSON, ReportFormatMarkdown:
	default:
		return ErrInvalidReportFormat
	}
	if c.ReportFile != "" && c.ReportFormat == ReportFormatNone {
		return ErrReportFileWithoutFormat
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return ErrInvalidLogFormat
	}
	if c.Archive && c.ArchiveDir == "" {
		return ErrNoArchiveDir
	}
	return nil
}

// Policy builds the keyword filter policy.
func (c *Config) Policy() filter.Policy {
	return filter.Policy{
		Include: filter.FromList(c.Include),
		Exclude: filter.FromList(c.Exclude),
	}
}

// HeadersFor returns the request headers for host: the global headers
// overlaid with the host's site headers. The result is a fresh map.
func (c *Config) HeadersFor(host string) map[string]string {
	site, ok := c.Sites[host]
	if len(c.Headers) == 0 && (!ok || len(site.Headers) == 0) {
		return nil
	}

	out := make(map[string]string, len(c.Headers)+len(site.Headers))
	for k, v := range c.Headers {
		out[k] = v
	}
	for k, v := range site.Headers {
		out[k] = v
	}
	return out
}
