// Package goquery implements domfetch.Parser, domfetch.Document and
// domfetch.Element on top of goquery and cascadia.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/domfetch"
	"golang.org/x/net/html"
)

// Ensure types implement domfetch interfaces at compile time.
var (
	_ domfetch.Parser   = (*Parser)(nil)
	_ domfetch.Document = (*Document)(nil)
)

// Parser parses markup with the HTML5 parsing algorithm of x/net/html.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse builds a document from markup. Like a browser, the parser repairs
// malformed markup instead of rejecting it.
func (p *Parser) Parse(markup string) (domfetch.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, domfetch.Errorf(domfetch.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc}, nil
}

// Document is a parsed markup tree.
type Document struct {
	doc *goquery.Document
}

// Select evaluates selector against the whole document.
func (d *Document) Select(selector string) ([]domfetch.Element, error) {
	return find(d.doc.Selection, selector)
}

// find evaluates selector against the descendants of sel.
// Results are in document order without duplicates.
func find(sel *goquery.Selection, selector string) ([]domfetch.Element, error) {
	if strings.TrimSpace(selector) == "" {
		return []domfetch.Element{}, nil
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, domfetch.Errorf(domfetch.EINVALID, "invalid selector %q: %v", selector, err)
	}

	return elements(sel.FindMatcher(m)), nil
}

// elements splits a selection into one Element per element node.
func elements(sel *goquery.Selection) []domfetch.Element {
	result := make([]domfetch.Element, 0, sel.Length())
	for i, n := range sel.Nodes {
		if n.Type != html.ElementNode {
			continue
		}
		result = append(result, &Element{sel: sel.Eq(i)})
	}
	return result
}
