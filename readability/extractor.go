// Package readability finds the main content of a page with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/gridscrape"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements gridscrape.ContentExtractor at compile time.
var _ gridscrape.ContentExtractor = (*Extractor)(nil)

// Extractor returns the article body readability scores highest.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractContent returns the main content as HTML. Returns ENOTFOUND when
// the page has no readable content.
func (e *Extractor) ExtractContent(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", gridscrape.Errorf(gridscrape.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return "", gridscrape.Errorf(gridscrape.ENOTFOUND, "no readable content")
	}
	return article.Content, nil
}
