package rod

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/domfetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
)

// Defaults for BrowserManager options.
const (
	DefaultRecycleAfter  = 75
	DefaultLaunchTimeout = 30 * time.Second
)

// BrowserManager manages browser lifecycle with automatic recycling to prevent
// memory accumulation. Chrome accumulates memory over time (~0.5MB/s under load),
// and the baseline never returns to initial levels even with proper page cleanup.
// Recycling the browser periodically addresses this issue.
//
// The browser is launched on the first Acquire, not at construction, so a
// manager that never serves a headless request never starts Chrome.
// Only one launch runs at a time and it runs without holding the manager
// lock; callers waiting for it give up when their context ends.
// Recycling only happens while no page is in use.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser       *rod.Browser
	launcher      *launcher.Launcher
	pending       *launch
	pageCount     int64
	recycleAfter  int64
	launchTimeout time.Duration
	active        int
	remoteURL     string
	bin           string
	logger        *slog.Logger
	mu            sync.Mutex
	closed        bool
}

// launch is one browser start. done is closed once err is set.
type launch struct {
	done chan struct{}
	err  error
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets the number of pages after which the browser is recycled.
// Defaults to 75 if not specified.
func WithRecycleAfter(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// WithLaunchTimeout bounds launching or connecting to a browser.
// Defaults to DefaultLaunchTimeout (30s) if not specified.
func WithLaunchTimeout(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launchTimeout = d
	}
}

// WithRemoteURL connects to an already running browser instead of
// launching a local one. The URL is either the DevTools WebSocket URL
// (ws:// or wss://) or the HTTP debugging endpoint it is resolved from.
func WithRemoteURL(u string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.remoteURL = u
	}
}

// WithBrowserBin sets the path of the Chrome binary to launch.
// By default rod looks up an installed browser or downloads one.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithManagerLogger sets the logger for launch and recycle events.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = l
	}
}

// NewBrowserManager creates a new BrowserManager.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) *BrowserManager {
	bm := &BrowserManager{
		recycleAfter:  DefaultRecycleAfter,
		launchTimeout: DefaultLaunchTimeout,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

// Acquire returns the browser, launching it if needed, and marks one page
// as in use. Every successful Acquire must be paired with a Release.
//
// If ctx ends while a launch is in progress, Acquire returns ctx.Err() and
// the launch carries on for later callers.
func (bm *BrowserManager) Acquire(ctx context.Context) (*rod.Browser, error) {
	for {
		bm.mu.Lock()
		if bm.closed {
			bm.mu.Unlock()
			return nil, domfetch.Errorf(domfetch.EINVALID, "browser manager closed")
		}

		l := bm.pending
		if l == nil {
			if bm.browser != nil && !bm.recycleDue() {
				bm.active++
				browser := bm.browser
				bm.mu.Unlock()
				return browser, nil
			}
			l = bm.startLaunch()
		}
		bm.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-l.done:
		}

		// A failed recycle keeps the old browser, so only a failed first
		// launch is reported.
		if l.err != nil && !bm.hasBrowser() {
			return nil, l.err
		}
	}
}

// Release marks a page acquired with Acquire as done and counts it toward
// the recycling threshold.
func (bm *BrowserManager) Release() {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.active > 0 {
		bm.active--
	}
	bm.pageCount++
}

// Active returns the number of pages currently in use.
func (bm *BrowserManager) Active() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.active
}

// Close releases browser resources. A launch still in progress is shut
// down when it completes. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := closeBrowser(bm.browser, bm.launcher)
	bm.browser = nil
	bm.launcher = nil
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func (bm *BrowserManager) hasBrowser() bool {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.browser != nil
}

// recycleDue reports whether the browser has served enough pages to be
// replaced. Must be called with mu held.
func (bm *BrowserManager) recycleDue() bool {
	return bm.active == 0 && bm.pageCount >= bm.recycleAfter
}

// startLaunch starts a browser in the background and records it as the
// pending launch. Must be called with mu held and no launch pending.
func (bm *BrowserManager) startLaunch() *launch {
	l := &launch{done: make(chan struct{})}
	bm.pending = l
	recycle := bm.browser != nil

	go func() {
		browser, lnchr, err := bm.launchBrowser()

		bm.mu.Lock()
		defer bm.mu.Unlock()
		defer close(l.done)

		bm.pending = nil
		l.err = err

		switch {
		case err != nil && recycle:
			bm.logger.Warn("browser recycle failed, keeping old browser", "err", err)
			bm.pageCount = 0
		case err != nil:
			bm.logger.Warn("browser launch failed", "err", err)
		case bm.closed:
			go closeBrowser(browser, lnchr)
		default:
			if recycle {
				go closeBrowser(bm.browser, bm.launcher)
				bm.logger.Info("browser recycled")
			}
			bm.browser = browser
			bm.launcher = lnchr
			bm.pageCount = 0
		}
	}()

	return l
}

// launchBrowser starts a new browser instance with stability flags, or
// connects to the remote browser, within the launch timeout.
func (bm *BrowserManager) launchBrowser() (*rod.Browser, *launcher.Launcher, error) {
	// The browser keeps this context for its lifetime, so it is only
	// canceled when the launch runs out of time.
	ctx, cancel := context.WithCancel(context.Background())
	deadline := time.Now().Add(bm.launchTimeout)
	timer := time.AfterFunc(bm.launchTimeout, cancel)

	browser, lnchr, err := bm.start(ctx, deadline)
	if !timer.Stop() {
		if err == nil {
			_ = closeBrowser(browser, lnchr)
		}
		err = fmt.Errorf("timed out after %s", bm.launchTimeout)
	}
	if err != nil {
		return nil, nil, domfetch.Errorf(domfetch.EUNAVAILABLE, "starting browser: %v", err)
	}
	return browser, lnchr, nil
}

func (bm *BrowserManager) start(ctx context.Context, deadline time.Time) (*rod.Browser, *launcher.Launcher, error) {
	if bm.remoteURL != "" {
		browser, err := connect(ctx, bm.remoteURL, deadline)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %w", bm.remoteURL, err)
		}
		bm.logger.Info("browser connected", "url", bm.remoteURL)
		return browser, nil, nil
	}

	lnchr := launcher.New().
		Context(ctx).
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		lnchr = lnchr.Bin(bm.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching: %w", err)
	}

	browser, err := connect(ctx, u, deadline)
	if err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting: %w", err)
	}
	bm.logger.Info("browser launched", "pid", lnchr.PID())
	return browser, lnchr, nil
}

// connect opens the DevTools connection. The WebSocket handshake does not
// observe ctx, so the connection carries the launch deadline until the
// handshake is done.
func connect(ctx context.Context, controlURL string, deadline time.Time) (*rod.Browser, error) {
	u, err := url.Parse(controlURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		resolved, err := launcher.ResolveURL(controlURL)
		if err != nil {
			return nil, err
		}
		if u, err = url.Parse(resolved); err != nil {
			return nil, err
		}
	}
	if u.Port() == "" && u.Scheme == "wss" {
		u.Host += ":443"
	}

	d := &deadlineDialer{tls: u.Scheme == "wss", deadline: deadline}
	ws := &cdp.WebSocket{Dialer: d}
	if err := ws.Connect(ctx, u.String(), nil); err != nil {
		if d.conn != nil {
			_ = d.conn.Close()
		}
		return nil, err
	}
	_ = d.conn.SetDeadline(time.Time{})

	browser := rod.New().Context(ctx).Client(cdp.New().Start(ws))
	if err := browser.Connect(); err != nil {
		_ = ws.Close()
		return nil, err
	}
	return browser, nil
}

// deadlineDialer dials the DevTools endpoint with a deadline on the
// connection.
type deadlineDialer struct {
	tls      bool
	deadline time.Time
	conn     net.Conn
}

func (d *deadlineDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	var dialer cdp.Dialer = &net.Dialer{}
	if d.tls {
		dialer = &tls.Dialer{}
	}

	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(d.deadline); err != nil {
		_ = conn.Close()
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

// closeBrowser shuts down a browser and its launcher. Either may be nil.
func closeBrowser(browser *rod.Browser, lnchr *launcher.Launcher) error {
	var err error
	if browser != nil {
		if cerr := browser.Close(); cerr != nil {
			err = fmt.Errorf("closing browser: %w", cerr)
		}
	}
	if lnchr != nil {
		lnchr.Kill()
	}
	return err
}
