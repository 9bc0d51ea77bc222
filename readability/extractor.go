// Package readability finds the main content of a page with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/domfetch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements domfetch.Extractor at compile time.
var _ domfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates a new Extractor. pageURL, when not nil, is used to
// resolve relative links in the extracted content.
func NewExtractor(pageURL *url.URL) *Extractor {
	return &Extractor{pageURL: pageURL}
}

// Extract returns the readable article content of markup.
func (e *Extractor) Extract(markup string) (*domfetch.ExtractResult, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, domfetch.Errorf(domfetch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(markup), e.pageURL)
	if err != nil {
		return nil, domfetch.Errorf(domfetch.EINVALID, "extracting main content: %v", err)
	}

	return &domfetch.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
