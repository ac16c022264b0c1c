package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrTorWithProxy is returned when --tor and --proxy are both set.
	ErrTorWithProxy = errors.New("--tor and --proxy cannot be used together")

	// ErrInvalidTorTimeout is returned when the Tor startup timeout is not positive.
	ErrInvalidTorTimeout = errors.New("invalid tor startup timeout: must be positive")

	// ErrInvalidReportFormat is returned for an unknown --report value.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrReportFileWithoutFormat is returned when --report-file is set without --report.
	ErrReportFileWithoutFormat = errors.New("--report-file requires --report")

	// ErrInvalidLogFormat is returned for an unknown --log-format value.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrNoArchiveDir is returned when archiving is enabled without a directory.
	ErrNoArchiveDir = errors.New("archive enabled but no archive directory set")
)
