package domfetch

// ExtractResult holds the main content found in a page.
type ExtractResult struct {
	// Title is the page title taken from metadata.
	Title string

	// ContentHTML is the main content with navigation, footers and
	// sidebars removed. It is empty when no main content was found.
	ContentHTML string
}

// Extractor finds the main content of a page. A Pipeline configured with an
// Extractor runs selectors against the extracted content instead of the
// whole page.
type Extractor interface {
	// Extract returns the main content of markup. Blank markup returns
	// EINVALID.
	Extract(markup string) (*ExtractResult, error)
}
