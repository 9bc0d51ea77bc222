package domfetch

// Element is one element node of a parsed document.
type Element interface {
	// Tag returns the lower-case tag name.
	Tag() string

	// Attributes returns a copy of the element's attributes.
	Attributes() map[string]string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Text returns the concatenated text of all descendants, trimmed.
	Text() string

	// HTML returns the outer markup of the element, including its own tag.
	HTML() (string, error)

	// InnerHTML returns the markup of the element's children.
	InnerHTML() (string, error)

	// Children returns the child elements in document order.
	Children() []Element

	// Parent returns the parent element. The second result is false for
	// the top-level element of a document.
	Parent() (Element, bool)

	// Find evaluates a CSS selector against the element's descendants.
	Find(selector string) ([]Element, error)
}

// Document is the root of a parsed markup tree.
type Document interface {
	// Select evaluates a CSS selector against the whole document and returns
	// matches in document order without duplicates. A blank selector
	// matches nothing.
	Select(selector string) ([]Element, error)
}

// Parser turns markup into a Document.
type Parser interface {
	// Parse builds a document tree from markup. Malformed markup is
	// repaired on a best-effort basis rather than rejected.
	Parse(markup string) (Document, error)
}
