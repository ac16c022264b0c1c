package crawler

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by FetchError.
var (
	// ErrUnsupportedScheme is returned for seed URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme: only http and https can be fetched")

	// ErrMissingHost is returned for seed URLs without a host.
	ErrMissingHost = errors.New("URL has no host")

	// ErrBadStatus is returned when the server answers with anything but 200 OK.
	ErrBadStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// FetchReason tags why a fetch failed.
type FetchReason int

const (
	// ReasonInvalidURL means the URL could not be turned into a request.
	ReasonInvalidURL FetchReason = iota

	// ReasonNetwork covers DNS, connection, TLS and redirect errors.
	ReasonNetwork

	// ReasonTimeout means the fixed request timeout expired.
	ReasonTimeout

	// ReasonBadStatus means the response status was not 200.
	ReasonBadStatus

	// ReasonReadBody means the response body could not be read.
	ReasonReadBody
)

// String returns a short human-readable name for the reason.
func (r FetchReason) String() string {
	switch r {
	case ReasonInvalidURL:
		return "invalid URL"
	case ReasonNetwork:
		return "network error"
	case ReasonTimeout:
		return "timeout"
	case ReasonBadStatus:
		return "bad status"
	case ReasonReadBody:
		return "read body"
	default:
		return "unknown"
	}
}

// FetchError describes a failed fetch of one URL.
type FetchError struct {
	// URL is the URL that was requested.
	URL string

	// Reason classifies the failure.
	Reason FetchReason

	// StatusCode is the HTTP status for ReasonBadStatus, otherwise 0.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Reason == ReasonBadStatus {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a FetchError caused by a timeout.
func IsTimeout(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Reason == ReasonTimeout
}
