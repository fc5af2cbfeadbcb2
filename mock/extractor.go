package mock

import "github.com/fwojciec/gridscrape"

var _ gridscrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of gridscrape.Extractor.
type Extractor struct {
	ExtractFn func(resp *gridscrape.Response) (*gridscrape.Extraction, error)
}

func (e *Extractor) Extract(resp *gridscrape.Response) (*gridscrape.Extraction, error) {
	return e.ExtractFn(resp)
}

var _ gridscrape.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of gridscrape.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html string) (string, error)
}

func (e *ContentExtractor) ExtractContent(html string) (string, error) {
	return e.ExtractContentFn(html)
}
