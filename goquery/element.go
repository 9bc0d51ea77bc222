package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/domfetch"
	"golang.org/x/net/html"
)

// Ensure Element implements domfetch.Element at compile time.
var _ domfetch.Element = (*Element)(nil)

// Element is a single element node backed by a one-node goquery selection.
type Element struct {
	sel *goquery.Selection
}

// node returns the underlying x/net/html node.
func (e *Element) node() *html.Node {
	return e.sel.Nodes[0]
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return goquery.NodeName(e.sel)
}

// Attributes returns all attributes, namespaced keys as "ns:key".
func (e *Element) Attributes() map[string]string {
	n := e.node()
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		attrs[key] = a.Val
	}
	return attrs
}

// Attr returns the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Text returns the trimmed text of the element and its descendants.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

// HTML returns the outer HTML of the element.
func (e *Element) HTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}

// InnerHTML returns the HTML of the element's children.
func (e *Element) InnerHTML() (string, error) {
	return e.sel.Html()
}

// Children returns the child elements in document order.
func (e *Element) Children() []domfetch.Element {
	return elements(e.sel.Children())
}

// Parent returns the parent element, or false at the document root.
func (e *Element) Parent() (domfetch.Element, bool) {
	parent := e.sel.Parent()
	if parent.Length() == 0 || parent.Nodes[0].Type != html.ElementNode {
		return nil, false
	}
	return &Element{sel: parent}, true
}

// Find evaluates selector against the descendants of the element.
func (e *Element) Find(selector string) ([]domfetch.Element, error) {
	return find(e.sel, selector)
}
