package mock

import "github.com/fwojciec/domfetch"

var (
	_ domfetch.Parser   = (*Parser)(nil)
	_ domfetch.Document = (*Document)(nil)
	_ domfetch.Element  = (*Element)(nil)
)

// Parser is a mock implementation of domfetch.Parser.
type Parser struct {
	ParseFn func(markup string) (domfetch.Document, error)
}

func (p *Parser) Parse(markup string) (domfetch.Document, error) {
	return p.ParseFn(markup)
}

// Document is a mock implementation of domfetch.Document.
type Document struct {
	SelectFn func(selector string) ([]domfetch.Element, error)
}

func (d *Document) Select(selector string) ([]domfetch.Element, error) {
	return d.SelectFn(selector)
}

// Element is a mock implementation of domfetch.Element.
type Element struct {
	TagFn        func() string
	AttributesFn func() map[string]string
	AttrFn       func(name string) (string, bool)
	TextFn       func() string
	HTMLFn       func() (string, error)
	InnerHTMLFn  func() (string, error)
	ChildrenFn   func() []domfetch.Element
	ParentFn     func() (domfetch.Element, bool)
	FindFn       func(selector string) ([]domfetch.Element, error)
}

func (e *Element) Tag() string {
	return e.TagFn()
}

func (e *Element) Attributes() map[string]string {
	return e.AttributesFn()
}

func (e *Element) Attr(name string) (string, bool) {
	return e.AttrFn(name)
}

func (e *Element) Text() string {
	return e.TextFn()
}

func (e *Element) HTML() (string, error) {
	return e.HTMLFn()
}

func (e *Element) InnerHTML() (string, error) {
	return e.InnerHTMLFn()
}

func (e *Element) Children() []domfetch.Element {
	return e.ChildrenFn()
}

func (e *Element) Parent() (domfetch.Element, bool) {
	return e.ParentFn()
}

func (e *Element) Find(selector string) ([]domfetch.Element, error) {
	return e.FindFn(selector)
}
