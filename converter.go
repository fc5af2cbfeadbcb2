package gridscrape

// Converter converts HTML fragments to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a module description,
	// into Markdown.
	Convert(html string) (string, error)
}
