// Package http provides an HTTP-based implementation of domfetch.Fetcher
// for static pages that don't require JavaScript rendering.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/domfetch"
	"github.com/fwojciec/domfetch/chardet"
	"github.com/hashicorp/go-retryablehttp"
)

// Defaults for Fetcher options.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultRetryMax     = 2
	DefaultRetryWait    = 500 * time.Millisecond
	DefaultMaxBodySize  = 10 << 20
	DefaultUserAgent    = "domfetch/1.0 (+https://github.com/fwojciec/domfetch)"
)

// Ensure Fetcher implements domfetch.Fetcher at compile time.
var _ domfetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP GET requests.
// Unlike rod.Renderer, this does not execute JavaScript.
// Transport errors, 429 and 5xx responses are retried with backoff.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client    *retryablehttp.Client
	rateLimit float64
	timeout   time.Duration
	retryMax  int
	retryWait time.Duration
	maxBody   int64
	userAgent string
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of a single HTTP attempt.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) Option {
	return func(f *Fetcher) {
		f.retryMax = n
	}
}

// WithRetryWait sets the minimum wait between retries. The wait doubles on
// every attempt up to eight times this value.
func WithRetryWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.retryWait = d
	}
}

// WithRateLimit limits requests to rps per host name, counting every retry
// attempt. Zero or negative disables rate limiting, which is the default.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.rateLimit = rps
	}
}

// WithMaxBodySize sets the largest response body accepted. Larger bodies
// fail with EUNAVAILABLE.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		retryMax:  DefaultRetryMax,
		retryWait: DefaultRetryWait,
		maxBody:   DefaultMaxBodySize,
		userAgent: DefaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = f.timeout
	client.RetryMax = f.retryMax
	client.RetryWaitMin = f.retryWait
	client.RetryWaitMax = 8 * f.retryWait
	client.Logger = f.logger
	// Hand the last response back after retries run out so the status
	// code can be reported.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.CheckRetry = checkRetry
	if f.rateLimit > 0 {
		client.HTTPClient.Transport = newRateLimitedTransport(client.HTTPClient.Transport, f.rateLimit)
	}
	f.client = client

	return f
}

// Fetch retrieves the HTML content from the given URL and decodes it to
// UTF-8 using the response's declared or detected charset.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return "", domfetch.Errorf(domfetch.EURLPARSE, "failed to parse URL %q", rawURL)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", domfetch.Errorf(domfetch.EURLPARSE, "failed to parse URL %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fetchError(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domfetch.Errorf(domfetch.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", fetchError(ctx, rawURL, err)
	}
	if int64(len(body)) > f.maxBody {
		return "", domfetch.Errorf(domfetch.EUNAVAILABLE, "response from %s exceeds %d bytes", rawURL, f.maxBody)
	}

	return chardet.Decode(body, resp.Header.Get("Content-Type"))
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.HTTPClient.CloseIdleConnections()
	return nil
}

// checkRetry retries like retryablehttp's default policy, except that
// domfetch errors raised by the transport are final.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	var e *domfetch.Error
	if errors.As(err, &e) {
		return false, err
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// fetchError classifies a transport error. Context errors are returned
// unchanged so callers can tell cancellation from failure.
func fetchError(ctx context.Context, rawURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var e *domfetch.Error
	if errors.As(err, &e) {
		return e
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domfetch.Errorf(domfetch.ETIMEOUT, "fetching %s timed out", rawURL)
	}
	return domfetch.Errorf(domfetch.EUNAVAILABLE, "fetching %s: %v", rawURL, err)
}
