package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domfetch"
)

// Ensure LoggingResolver implements domfetch.Resolver.
var _ domfetch.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with debug logging.
type LoggingResolver struct {
	next   domfetch.Resolver
	mode   domfetch.SourceMode
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver for the given source mode.
func NewLoggingResolver(next domfetch.Resolver, mode domfetch.SourceMode, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, mode: mode, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
// Markup sources are logged by size only.
func (r *LoggingResolver) Resolve(ctx context.Context, in *domfetch.Input) (markup string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"mode", string(r.mode)}
		if r.mode != domfetch.SourceString {
			attrs = append(attrs, "source", in.String())
		}
		attrs = append(attrs,
			"bytes", len(markup),
			"hash", digest(markup),
			"duration", time.Since(begin),
			"err", err,
		)
		r.logger.Debug("resolve", attrs...)
	}(time.Now())
	return r.next.Resolve(ctx, in)
}
