// Package trafilatura finds the main content of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/domfetch"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements domfetch.Extractor at compile time.
var _ domfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. It falls back to readability and
// dom-distiller heuristics when its own extraction finds too little.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of markup.
func (e *Extractor) Extract(markup string) (*domfetch.ExtractResult, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, domfetch.Errorf(domfetch.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(markup), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, domfetch.Errorf(domfetch.EINVALID, "extracting main content: %v", err)
	}

	res := &domfetch.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, domfetch.Errorf(domfetch.EINTERNAL, "rendering main content: %v", err)
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}
