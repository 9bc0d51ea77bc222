package domfetch

import (
	"context"
	"net/url"
)

// Resolver turns an Input into raw markup for one SourceMode.
type Resolver interface {
	// Resolve returns the markup designated by in.
	// The context controls timeout and cancellation.
	Resolve(ctx context.Context, in *Input) (markup string, err error)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(ctx context.Context, in *Input) (string, error)

// Resolve calls f(ctx, in).
func (f ResolverFunc) Resolve(ctx context.Context, in *Input) (string, error) {
	return f(ctx, in)
}

// ParseURL validates that raw is an absolute http or https URL.
// Any other value returns EURLPARSE; no I/O is attempted.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, Errorf(EURLPARSE, "failed to parse URL %q", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, Errorf(EURLPARSE, "failed to parse URL %q: absolute http(s) URL required", raw)
	}
	return u, nil
}
