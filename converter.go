package domfetch

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	// Blank input converts to an empty string.
	Convert(html string) (string, error)
}
