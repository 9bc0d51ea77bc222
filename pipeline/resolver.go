package pipeline

import (
	"context"

	"github.com/fwojciec/domfetch"
)

// Ensure FetchResolver implements domfetch.Resolver at compile time.
var _ domfetch.Resolver = (*FetchResolver)(nil)

// FetchResolver resolves inputs as URLs and retrieves them with a Fetcher.
// It serves both the url and the headless source modes.
type FetchResolver struct {
	fetcher domfetch.Fetcher
}

// NewFetchResolver creates a FetchResolver backed by fetcher.
func NewFetchResolver(fetcher domfetch.Fetcher) *FetchResolver {
	return &FetchResolver{fetcher: fetcher}
}

// Resolve validates the input as an absolute URL before fetching it.
// Invalid URLs fail with EURLPARSE without touching the network.
func (r *FetchResolver) Resolve(ctx context.Context, in *domfetch.Input) (string, error) {
	u, err := domfetch.ParseURL(in.String())
	if err != nil {
		return "", err
	}
	return r.fetcher.Fetch(ctx, u.String())
}
