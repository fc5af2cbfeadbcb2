package gridscrape

// Extractor interprets a fetched page according to its visit state.
type Extractor interface {
	// Extract returns the entries to enqueue next and, for detail pages,
	// the scraped module. A page that cannot yield a valid module returns
	// an EINVALID error that applies to that page only.
	Extract(resp *Response) (*Extraction, error)
}

// ContentExtractor finds the main content of a full page.
type ContentExtractor interface {
	// ExtractContent returns the HTML of the page's main content.
	ExtractContent(html string) (string, error)
}
