// Package rod renders JavaScript-driven pages in headless Chrome and
// implements domfetch.Fetcher on top of go-rod.
package rod

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/domfetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/sync/semaphore"
)

// Defaults for Renderer options.
const (
	DefaultRenderTimeout = 30 * time.Second
	DefaultMaxPages      = 4
	DefaultIdleWindow    = 500 * time.Millisecond
)

const pageCloseTimeout = 5 * time.Second

// Ensure Renderer implements domfetch.Fetcher at compile time.
var _ domfetch.Fetcher = (*Renderer)(nil)

// Renderer retrieves rendered HTML from URLs using Chrome browser automation.
// It waits until the page has loaded, the network has gone quiet and the DOM
// has stopped changing before serializing the document.
//
// At most MaxPages pages are open at once; further calls wait for a free
// slot. Pages are never shared between calls.
//
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager     *BrowserManager
	ownsManager bool
	pages       *semaphore.Weighted
	maxPages    int64
	timeout     time.Duration
	idle        time.Duration
	renderDelay time.Duration
	stealth     bool
	logger      *slog.Logger
	closed      atomic.Bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRenderTimeout bounds navigation, idle waiting and serialization of a
// single render. Defaults to DefaultRenderTimeout (30s) if not specified.
func WithRenderTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithMaxPages sets the number of pages that may be open at once.
// Defaults to DefaultMaxPages (4) if not specified.
func WithMaxPages(n int64) RendererOption {
	return func(r *Renderer) {
		r.maxPages = n
	}
}

// WithIdleWindow sets how long the network and DOM must stay quiet before
// the page counts as rendered.
func WithIdleWindow(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.idle = d
	}
}

// WithRenderDelay adds a fixed delay after the page has settled, for
// sites that render asynchronously after the network goes idle.
func WithRenderDelay(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.renderDelay = d
	}
}

// WithStealth opens pages with evasions that hide headless automation.
func WithStealth(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.stealth = enabled
	}
}

// WithManager shares an existing BrowserManager. The Renderer does not
// close a manager it was given.
func WithManager(bm *BrowserManager) RendererOption {
	return func(r *Renderer) {
		r.manager = bm
	}
}

// WithLogger sets the logger for page lifecycle events.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = l
	}
}

// NewRenderer creates a new Renderer. Chrome is launched on the first
// Fetch, so constructing a Renderer is cheap.
// Close must be called when the Renderer is no longer needed.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		maxPages: DefaultMaxPages,
		timeout:  DefaultRenderTimeout,
		idle:     DefaultIdleWindow,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxPages < 1 {
		r.maxPages = 1
	}
	if r.manager == nil {
		r.manager = NewBrowserManager(WithManagerLogger(r.logger))
		r.ownsManager = true
	}
	r.pages = semaphore.NewWeighted(r.maxPages)
	return r
}

// Fetch navigates to the URL and returns the rendered HTML.
//
// Waiting for a free page slot is bounded only by ctx. The render timeout
// starts once the slot is held and covers the browser launch, navigation
// and serialization.
func (r *Renderer) Fetch(ctx context.Context, url string) (string, error) {
	if r.closed.Load() {
		return "", domfetch.Errorf(domfetch.EINVALID, "renderer closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := r.pages.Acquire(ctx, 1); err != nil {
		return "", r.renderError(ctx, url, err)
	}
	defer r.pages.Release(1)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	s, err := r.open(ctx)
	if err != nil {
		return "", r.renderError(ctx, url, err)
	}
	defer s.release()

	html, err := s.render(ctx, url, r.idle, r.renderDelay)
	if err != nil {
		return "", r.renderError(ctx, url, err)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.ownsManager {
		return r.manager.Close()
	}
	return nil
}

// renderError maps failures to domfetch error codes. Cancellation by the
// caller is returned unchanged.
func (r *Renderer) renderError(ctx context.Context, url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domfetch.Errorf(domfetch.ETIMEOUT, "rendering %s timed out", url)
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}
	var e *domfetch.Error
	if errors.As(err, &e) {
		return err
	}
	return domfetch.Errorf(domfetch.EUNAVAILABLE, "rendering %s: %v", url, err)
}

// session is one page reserved for a single render.
type session struct {
	page    *rod.Page
	release func()
}

// open opens a page on the shared browser. The caller must hold a page
// slot, and on success must call release exactly once.
func (r *Renderer) open(ctx context.Context) (*session, error) {
	browser, err := r.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	page, err := r.openPage(browser.Context(ctx))
	if err != nil {
		r.manager.Release()
		return nil, err
	}

	// Detach from ctx so the page can be closed after a timeout.
	page = page.Context(context.Background())
	r.logger.Debug("page opened", "active", r.manager.Active())

	return &session{
		page: page,
		release: func() {
			if err := page.Timeout(pageCloseTimeout).Close(); err != nil {
				r.logger.Debug("page close failed", "err", err)
			}
			r.manager.Release()
		},
	}, nil
}

func (r *Renderer) openPage(browser *rod.Browser) (*rod.Page, error) {
	if r.stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// render navigates and waits for the page to settle before serializing it.
func (s *session) render(ctx context.Context, url string, idle, delay time.Duration) (string, error) {
	page := s.page.Context(ctx)

	// Must be registered before navigation to observe the initial requests.
	waitIdle := page.WaitRequestIdle(idle, nil, nil, []proto.NetworkResourceType{
		proto.NetworkResourceTypeWebSocket,
		proto.NetworkResourceTypeEventSource,
		proto.NetworkResourceTypeMedia,
	})

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	waitIdle()
	if err := page.WaitDOMStable(idle, 0); err != nil {
		return "", err
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return page.HTML()
}
