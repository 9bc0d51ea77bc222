package http

import (
	"net/http"
	"sync"

	"github.com/fwojciec/domfetch"
	"golang.org/x/time/rate"
)

// rateLimitedTransport spaces out requests to the same host with one token
// bucket per host name. It sits under the retry loop, so every attempt,
// retries included, waits for a token. Ports do not split a host's budget.
type rateLimitedTransport struct {
	next     http.RoundTripper
	rps      float64
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newRateLimitedTransport(next http.RoundTripper, rps float64) *rateLimitedTransport {
	return &rateLimitedTransport{
		next:     next,
		rps:      rps,
		limiters: make(map[string]*rate.Limiter),
	}
}

// RoundTrip waits for the request's host to have a token, then sends it.
func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := req.URL.Hostname()
	if err := t.limiter(host).Wait(req.Context()); err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// The next token falls after the deadline.
		return nil, domfetch.Errorf(domfetch.ETIMEOUT, "rate limit for %s exceeds the deadline", host)
	}
	return t.next.RoundTrip(req)
}

func (t *rateLimitedTransport) limiter(host string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[host]
	if !ok {
		// Burst of 1: no two requests to a host inside one interval.
		l = rate.NewLimiter(rate.Limit(t.rps), 1)
		t.limiters[host] = l
	}
	return l
}
