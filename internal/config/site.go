package config

import "time"

// SiteConfig holds request settings for a single host.
type SiteConfig struct {
	// Headers are added to requests for this host and override the global
	// headers of the same name.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File is the structure of the YAML configuration file.
// Zero values mean "not set" and leave the corresponding option alone.
type File struct {
	Workers     int                   `yaml:"workers,omitempty"`
	Timeout     time.Duration         `yaml:"timeout,omitempty"`
	UserAgent   string                `yaml:"userAgent,omitempty"`
	MaxBodySize int64                 `yaml:"maxBodySize,omitempty"`
	Proxy       string                `yaml:"proxy,omitempty"`
	Tor         bool                  `yaml:"tor,omitempty"`
	TorTimeout  time.Duration         `yaml:"torTimeout,omitempty"`
	Include     []string              `yaml:"include,omitempty"`
	Exclude     []string              `yaml:"exclude,omitempty"`
	Headers     map[string]string     `yaml:"headers,omitempty"`
	OutputDir   string                `yaml:"outputDir,omitempty"`
	Sites       map[string]SiteConfig `yaml:"sites,omitempty"`
}

// Flag names that have a configuration file counterpart.
const (
	FlagWorkers     = "workers"
	FlagTimeout     = "timeout"
	FlagUserAgent   = "user-agent"
	FlagMaxBodySize = "max-body-size"
	FlagProxy       = "proxy"
	FlagTor         = "tor"
	FlagTorTimeout  = "tor-timeout"
	FlagInclude     = "include"
	FlagExclude     = "exclude"
	FlagOutputDir   = "output-dir"
)

// ApplyFile copies the values set in f into c, skipping every option whose
// flag the user set explicitly. changed reports whether a flag was set; a
// nil changed treats every flag as unset. Headers and sites have no flags
// and are always merged, with file values winning over existing ones.
func (c *Config) ApplyFile(f *File, changed func(flag string) bool) {
	if f == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if f.Workers != 0 && !changed(FlagWorkers) {
		c.Workers = f.Workers
	}
	if f.Timeout != 0 && !changed(FlagTimeout) {
		c.Timeout = f.Timeout
	}
	if f.UserAgent != "" && !changed(FlagUserAgent) {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != 0 && !changed(FlagMaxBodySize) {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.Proxy != "" && !changed(FlagProxy) {
		c.Proxy = f.Proxy
	}
	if f.Tor && !changed(FlagTor) {
		c.Tor = true
	}
	if f.TorTimeout != 0 && !changed(FlagTorTimeout) {
		c.TorStartupTimeout = f.TorTimeout
	}
	if len(f.Include) > 0 && !changed(FlagInclude) {
		c.Include = f.Include
	}
	if len(f.Exclude) > 0 && !changed(FlagExclude) {
		c.Exclude = f.Exclude
	}
	if f.OutputDir != "" && !changed(FlagOutputDir) {
		c.OutputDir = f.OutputDir
	}

	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if len(f.Sites) > 0 {
		if c.Sites == nil {
			c.Sites = make(map[string]SiteConfig, len(f.Sites))
		}
		for host, site := range f.Sites {
			c.Sites[host] = site
		}
	}
}
