package mock

import "github.com/fwojciec/domfetch"

var _ domfetch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of domfetch.Extractor.
type Extractor struct {
	ExtractFn func(markup string) (*domfetch.ExtractResult, error)
}

func (e *Extractor) Extract(markup string) (*domfetch.ExtractResult, error) {
	return e.ExtractFn(markup)
}
