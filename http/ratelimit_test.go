package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/domfetch"
	domhttp "github.com/fwojciec/domfetch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attemptLog records when a test server saw each request.
type attemptLog struct {
	mu    sync.Mutex
	times []time.Time
}

func (l *attemptLog) record() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.times = append(l.times, time.Now())
	return len(l.times)
}

func (l *attemptLog) gaps() []time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	var gaps []time.Duration
	for i := 1; i < len(l.times); i++ {
		gaps = append(gaps, l.times[i].Sub(l.times[i-1]))
	}
	return gaps
}

func TestFetcher_RateLimit(t *testing.T) {
	t.Parallel()

	t.Run("spaces out fetches to the same host", func(t *testing.T) {
		t.Parallel()

		var log attemptLog
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.record()
			_, _ = w.Write([]byte("<p>ok</p>"))
		}))
		defer server.Close()

		fetcher := domhttp.NewFetcher(domhttp.WithRateLimit(10)) // 100ms apart
		defer fetcher.Close()

		for range 3 {
			_, err := fetcher.Fetch(context.Background(), server.URL)
			require.NoError(t, err)
		}

		gaps := log.gaps()
		require.Len(t, gaps, 2)
		for _, gap := range gaps {
			assert.GreaterOrEqual(t, gap, 80*time.Millisecond)
		}
	})

	t.Run("limits retry attempts", func(t *testing.T) {
		t.Parallel()

		var log attemptLog
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if log.record() < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("<p>recovered</p>"))
		}))
		defer server.Close()

		fetcher := domhttp.NewFetcher(
			domhttp.WithRateLimit(10),
			domhttp.WithRetryMax(2),
			domhttp.WithRetryWait(time.Millisecond),
		)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>recovered</p>", html)

		gaps := log.gaps()
		require.Len(t, gaps, 2)
		for _, gap := range gaps {
			assert.GreaterOrEqual(t, gap, 80*time.Millisecond, "retry should wait for the host's rate limit")
		}
	})

	t.Run("host names have independent limits", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<p>ok</p>"))
		}))
		defer server.Close()

		fetcher := domhttp.NewFetcher(domhttp.WithRateLimit(1))
		defer fetcher.Close()

		// Same server, reached under a second host name.
		other := strings.Replace(server.URL, "127.0.0.1", "localhost", 1)

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)

		start := time.Now()
		_, err = fetcher.Fetch(context.Background(), other)
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 500*time.Millisecond, "other host should not wait")
	})

	t.Run("returns ETIMEOUT when the next token is past the deadline", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<p>ok</p>"))
		}))
		defer server.Close()

		fetcher := domhttp.NewFetcher(domhttp.WithRateLimit(0.1)) // one request every 10s
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		start := time.Now()
		_, err = fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
		assert.Equal(t, domfetch.ETIMEOUT, domfetch.ErrorCode(err))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("returns context error when canceled while waiting", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<p>ok</p>"))
		}))
		defer server.Close()

		fetcher := domhttp.NewFetcher(domhttp.WithRateLimit(1))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		_, err = fetcher.Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})
}
