// Package pipeline selects elements from documents: it validates options,
// resolves the source to markup, parses it, evaluates the selector and
// shapes the matches into the requested output.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/domfetch"
	"github.com/fwojciec/domfetch/chardet"
	"github.com/fwojciec/domfetch/fs"
	"github.com/fwojciec/domfetch/goquery"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of concurrent selections in SelectAll.
const DefaultConcurrency = 4

// Pipeline runs selections. The file and string source modes are available
// by default; url and headless need a Fetcher (see WithFetcher).
//
// Pipeline holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	resolvers   map[domfetch.SourceMode]domfetch.Resolver
	parser      domfetch.Parser
	extractor   domfetch.Extractor
	logger      *slog.Logger
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResolver sets the resolver used for a source mode.
func WithResolver(mode domfetch.SourceMode, r domfetch.Resolver) Option {
	return func(p *Pipeline) {
		p.resolvers[mode] = r
	}
}

// WithFetcher resolves a URL-based source mode (url or headless) with f.
func WithFetcher(mode domfetch.SourceMode, f domfetch.Fetcher) Option {
	return WithResolver(mode, NewFetchResolver(f))
}

// WithParser replaces the default goquery parser.
func WithParser(parser domfetch.Parser) Option {
	return func(p *Pipeline) {
		p.parser = parser
	}
}

// WithExtractor narrows every resolved document to its main content before
// the selector runs.
func WithExtractor(e domfetch.Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithLogger sets the logger. Each selection is logged with a call ID.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithConcurrency sets how many selections SelectAll runs at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		resolvers: map[domfetch.SourceMode]domfetch.Resolver{
			domfetch.SourceFile:   fs.NewReader(),
			domfetch.SourceString: chardet.NewDecoder(),
		},
		parser:      goquery.NewParser(),
		logger:      slog.New(slog.DiscardHandler),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	return p
}

// SelectElements resolves in according to opts.Source, runs selector against
// the resulting document and returns one value per match in document order.
// Options are validated before any I/O. Every error is a *domfetch.Error and
// no partial result is returned.
func (p *Pipeline) SelectElements(ctx context.Context, in *domfetch.Input, selector string, opts domfetch.Options) (values []domfetch.Value, err error) {
	output, source, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	logger := p.logger.With("call", uuid.NewString())
	defer func(begin time.Time) {
		logger.Info("select",
			"source", string(source),
			"output", string(output),
			"selector", selector,
			"matches", len(values),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	resolver, ok := p.resolvers[source]
	if !ok {
		return nil, domfetch.Errorf(domfetch.ESOURCE, "source option not supported: no resolver configured for %q", string(source))
	}

	markup, err := resolver.Resolve(ctx, in)
	if err != nil {
		return nil, normalize(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, normalize(err)
	}

	if p.extractor != nil && strings.TrimSpace(markup) != "" {
		res, err := p.extractor.Extract(markup)
		if err != nil {
			return nil, normalize(err)
		}
		markup = res.ContentHTML
	}

	doc, err := p.parser.Parse(markup)
	if err != nil {
		return nil, normalize(err)
	}

	matches, err := doc.Select(selector)
	if err != nil {
		return nil, normalize(err)
	}

	values, err = domfetch.Transform(matches, output)
	if err != nil {
		return nil, normalize(err)
	}
	return values, nil
}

// SelectAll runs SelectElements for every input concurrently and returns the
// results in input order. The first failure cancels the remaining
// selections and is returned alone.
func (p *Pipeline) SelectAll(ctx context.Context, inputs []*domfetch.Input, selector string, opts domfetch.Options) ([][]domfetch.Value, error) {
	if _, _, err := opts.Validate(); err != nil {
		return nil, err
	}

	results := make([][]domfetch.Value, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			values, err := p.SelectElements(ctx, in, selector, opts)
			if err != nil {
				return err
			}
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// normalize converts collaborator errors into domfetch errors.
func normalize(err error) error {
	var e *domfetch.Error
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, context.DeadlineExceeded):
		return domfetch.Errorf(domfetch.ETIMEOUT, "operation timed out")
	case errors.Is(err, context.Canceled):
		return domfetch.Errorf(domfetch.ECANCELED, "operation canceled")
	}
	return domfetch.Errorf(domfetch.EINTERNAL, "%v", err)
}
