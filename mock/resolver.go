package mock

import (
	"context"

	"github.com/fwojciec/domfetch"
)

var _ domfetch.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of domfetch.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, in *domfetch.Input) (string, error)
}

func (r *Resolver) Resolve(ctx context.Context, in *domfetch.Input) (string, error) {
	return r.ResolveFn(ctx, in)
}
