package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

// Fetcher defaults.
const (
	// DefaultUserAgent is a desktop Chrome identification string. Some sites
	// refuse or simplify pages for unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultTimeout is the fixed per-request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024
)

// Page is a successfully fetched response.
type Page struct {
	// URL is the requested URL. Links are resolved against it.
	URL string

	// StatusCode is always http.StatusOK for a returned Page.
	StatusCode int

	// ContentType is the response Content-Type header.
	ContentType string

	// Body is the response body converted to UTF-8.
	Body []byte

	// Truncated is set when the body exceeded the size limit and was cut.
	Truncated bool
}

// Fetcher performs single HTTP GET requests.
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	headers     map[string]string
	hostHeaders func(host string) map[string]string
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header. Empty keeps the default.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders adds extra request headers. User-Agent set here is ignored;
// use WithUserAgent instead.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithHostHeaders sets a function returning the extra headers for a host.
// Its result replaces the headers given to WithHeaders for that request.
func WithHostHeaders(fn func(host string) map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.hostHeaders = fn
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
// Non-positive values are ignored.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using client. A nil client means
// http.DefaultClient.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Timeout returns the per-request timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch GETs rawURL and returns the page on a 200 response.
// Every failure is returned as a *FetchError; Fetch never panics on bad input.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: ReasonInvalidURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: ReasonInvalidURL, Err: err}
	}
	for k, v := range f.headersFor(u.Hostname()) {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: classify(ctx, err, ReasonNetwork), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		return nil, &FetchError{
			URL:        rawURL,
			Reason:     ReasonBadStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrBadStatus, resp.Status),
		}
	}

	contentType := resp.Header.Get("Content-Type")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: classify(ctx, err, ReasonReadBody), Err: err}
	}
	truncated := int64(len(raw)) > f.maxBodySize
	if truncated {
		raw = raw[:f.maxBodySize]
		f.logger.Warn("response body truncated, links past the limit are lost",
			"url", rawURL,
			"max_body_size", f.maxBodySize,
		)
	}

	data := raw
	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		f.logger.Debug("charset detection failed, using raw body",
			"url", rawURL,
			"content_type", contentType,
			"error", err,
		)
	} else if data, err = io.ReadAll(decoded); err != nil {
		return nil, &FetchError{URL: rawURL, Reason: ReasonReadBody, Err: err}
	}

	return &Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        data,
		Truncated:   truncated,
	}, nil
}

func (f *Fetcher) headersFor(host string) map[string]string {
	if f.hostHeaders != nil {
		return f.hostHeaders(host)
	}
	return f.headers
}

// validateURL rejects URLs that can never be fetched before any I/O happens.
func validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupportedScheme
	}
	if u.Host == "" {
		return nil, ErrMissingHost
	}
	return u, nil
}

// classify maps err to ReasonTimeout when the request deadline expired or
// the network layer reported a timeout, and to fallback otherwise.
func classify(ctx context.Context, err error, fallback FetchReason) FetchReason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return fallback
}
