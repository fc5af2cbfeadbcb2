// Package goquery implements gridscrape.Extractor for ModularGrid pages
// using CSS selectors.
package goquery

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/gridscrape"
)

// Ensure Extractor implements gridscrape.Extractor at compile time.
var _ gridscrape.Extractor = (*Extractor)(nil)

// Selectors holds the CSS selectors used to read ModularGrid pages.
// An empty selector disables its field.
type Selectors struct {
	// ModuleLink matches anchors on a list page that lead to detail pages.
	ModuleLink string

	Name         string
	Manufacturer string
	Width        string
	Depth        string
	CurrentPos12 string
	CurrentNeg12 string
	Current5V    string
	Description  string
}

// DefaultSelectors returns the selectors matching ModularGrid's markup.
func DefaultSelectors() Selectors {
	return Selectors{
		ModuleLink:   ".modules table tbody tr td:first-of-type a",
		Name:         ".module-view-header h1",
		Manufacturer: ".module-view-header .sub-header h2 a span",
		Width:        ".box-specs dl dd:first-of-type",
		Depth:        ".box-specs dl dd:nth-of-type(2)",
		CurrentPos12: ".box-specs dl dd:nth-of-type(3)",
		CurrentNeg12: ".box-specs dl dd:nth-of-type(4)",
		Current5V:    ".box-specs dl dd:nth-of-type(5)",
		Description:  ".module-description",
	}
}

// compiledSelectors mirrors Selectors with parsed matchers.
// A nil matcher marks a disabled field.
type compiledSelectors struct {
	moduleLink   goquery.Matcher
	name         goquery.Matcher
	manufacturer goquery.Matcher
	width        goquery.Matcher
	depth        goquery.Matcher
	currentPos12 goquery.Matcher
	currentNeg12 goquery.Matcher
	current5V    goquery.Matcher
	description  goquery.Matcher
}

// Extractor walks list pages and scrapes module detail pages.
// It is safe for concurrent use.
type Extractor struct {
	sel       compiledSelectors
	listURL   string
	maxPage   int
	converter gridscrape.Converter
	fallback  gridscrape.ContentExtractor
	now       func() time.Time
}

// Option configures an Extractor.
type Option func(*options)

type options struct {
	selectors Selectors
	converter gridscrape.Converter
	fallback  gridscrape.ContentExtractor
	now       func() time.Time
}

// WithSelectors overrides DefaultSelectors.
func WithSelectors(s Selectors) Option {
	return func(o *options) {
		o.selectors = s
	}
}

// WithConverter converts module descriptions to Markdown. Without a
// converter the description's plain text is used.
func WithConverter(c gridscrape.Converter) Option {
	return func(o *options) {
		o.converter = c
	}
}

// WithDescriptionFallback reads the description from the page's main
// content when the description selector matches nothing.
func WithDescriptionFallback(c gridscrape.ContentExtractor) Option {
	return func(o *options) {
		o.fallback = c
	}
}

// WithClock sets the function used to timestamp scraped modules.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewExtractor creates an Extractor that follows list pages 1..cfg.MaxPage
// built from cfg.ListURL. Returns EINVALID if the configuration or any
// selector is invalid.
func NewExtractor(cfg gridscrape.Config, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{selectors: DefaultSelectors(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	sel, err := compile(o.selectors)
	if err != nil {
		return nil, err
	}
	if sel.moduleLink == nil || sel.name == nil {
		return nil, gridscrape.Errorf(gridscrape.EINVALID, "module link and name selectors are required")
	}

	return &Extractor{
		sel:       sel,
		listURL:   cfg.ListURL,
		maxPage:   cfg.MaxPage,
		converter: o.converter,
		fallback:  o.fallback,
		now:       o.now,
	}, nil
}

// Extract parses the response body and dispatches on its visit state.
func (e *Extractor) Extract(resp *gridscrape.Response) (*gridscrape.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
	if err != nil {
		return nil, gridscrape.Errorf(gridscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	switch state := resp.State.(type) {
	case gridscrape.ListPage:
		return e.extractList(doc, resp.URL, state)
	case gridscrape.DetailPage:
		return e.extractDetail(doc, resp)
	default:
		return nil, gridscrape.Errorf(gridscrape.EINVALID, "unsupported visit state %v", resp.State)
	}
}

// extractList enqueues every module link and, below the page cap, the next list page.
func (e *Extractor) extractList(doc *goquery.Document, pageURL string, state gridscrape.ListPage) (*gridscrape.Extraction, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, gridscrape.Errorf(gridscrape.EINVALID, "invalid page URL: %v", err)
	}

	var next []gridscrape.FrontierEntry
	doc.FindMatcher(e.sel.moduleLink).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		next = append(next, gridscrape.FrontierEntry{URL: resolved, State: gridscrape.DetailPage{}})
	})

	if state.Page < e.maxPage {
		next = append(next, gridscrape.FrontierEntry{
			URL:   fmt.Sprintf(e.listURL, state.Page+1),
			State: gridscrape.ListPage{Page: state.Page + 1},
		})
	}

	return &gridscrape.Extraction{Next: next}, nil
}

// extractDetail scrapes one module. Only the name is required.
func (e *Extractor) extractDetail(doc *goquery.Document, resp *gridscrape.Response) (*gridscrape.Extraction, error) {
	name, ok := text(doc, e.sel.name)
	if !ok || name == "" {
		return nil, gridscrape.Errorf(gridscrape.EINVALID, "module name not found")
	}
	manufacturer, _ := text(doc, e.sel.manufacturer)

	description := e.description(doc, resp.Body)

	return &gridscrape.Extraction{
		Module: &gridscrape.Module{
			URL:          resp.URL,
			Name:         name,
			Manufacturer: manufacturer,
			Width:        quantity(doc, e.sel.width),
			Depth:        quantity(doc, e.sel.depth),
			CurrentPos12: quantity(doc, e.sel.currentPos12),
			CurrentNeg12: quantity(doc, e.sel.currentNeg12),
			Current5V:    quantity(doc, e.sel.current5V),
			Description:  description,
			ScrapedAt:    e.now().UTC(),
		},
	}, nil
}

// description is optional, so a failed Markdown conversion degrades to the
// selection's plain text instead of dropping the module.
func (e *Extractor) description(doc *goquery.Document, body string) string {
	var s *goquery.Selection
	if e.sel.description != nil {
		s = doc.FindMatcher(e.sel.description).First()
	}
	if s == nil || s.Length() == 0 {
		s = e.fallbackContent(body)
		if s == nil {
			return ""
		}
	}
	plain := strings.TrimSpace(s.Text())
	if e.converter == nil {
		return plain
	}

	html, err := s.Html()
	if err != nil || strings.TrimSpace(html) == "" {
		return plain
	}
	md, err := e.converter.Convert(html)
	if err != nil {
		return plain
	}
	return strings.TrimSpace(md)
}

// fallbackContent returns the page's main content, or nil if there is no
// fallback or it finds nothing. The description is optional, so fallback
// failures are not errors.
func (e *Extractor) fallbackContent(body string) *goquery.Selection {
	if e.fallback == nil {
		return nil
	}
	html, err := e.fallback.ExtractContent(body)
	if err != nil || strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc.Find("body")
}

// text returns the trimmed text of the first match.
// The bool result is false if the matcher is disabled or matches nothing.
func text(doc *goquery.Document, m goquery.Matcher) (string, bool) {
	if m == nil {
		return "", false
	}
	s := doc.FindMatcher(m).First()
	if s.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(s.Text()), true
}

// quantity parses the first match, or returns Unknown if nothing matches.
func quantity(doc *goquery.Document, m goquery.Matcher) gridscrape.Quantity {
	s, ok := text(doc, m)
	if !ok {
		return gridscrape.Unknown
	}
	return ParseQuantity(s)
}

func compile(s Selectors) (compiledSelectors, error) {
	var c compiledSelectors
	fields := []struct {
		name string
		src  string
		dst  *goquery.Matcher
	}{
		{"module link", s.ModuleLink, &c.moduleLink},
		{"name", s.Name, &c.name},
		{"manufacturer", s.Manufacturer, &c.manufacturer},
		{"width", s.Width, &c.width},
		{"depth", s.Depth, &c.depth},
		{"+12V current", s.CurrentPos12, &c.currentPos12},
		{"-12V current", s.CurrentNeg12, &c.currentNeg12},
		{"5V current", s.Current5V, &c.current5V},
		{"description", s.Description, &c.description},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.src) == "" {
			continue
		}
		m, err := cascadia.Compile(f.src)
		if err != nil {
			return compiledSelectors{}, gridscrape.Errorf(gridscrape.EINVALID, "invalid %s selector %q: %v", f.name, f.src, err)
		}
		*f.dst = m
	}
	return c, nil
}

// resolveURL resolves a relative URL against a base URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a URL is a non-HTTP link (javascript:, mailto:, tel:, data:).
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
