package gridscrape

import "fmt"

// VisitState tells the Extractor how to interpret a fetched page.
// The set of states is closed: ListPage and DetailPage.
type VisitState interface {
	fmt.Stringer
	visitState()
}

// ListPage is a numbered page of the module index. Pages start at 1.
type ListPage struct {
	Page int
}

func (ListPage) visitState() {}

func (s ListPage) String() string { return fmt.Sprintf("list(%d)", s.Page) }

// DetailPage is a single module's page.
type DetailPage struct{}

func (DetailPage) visitState() {}

func (DetailPage) String() string { return "detail" }

// FrontierEntry is a URL waiting to be fetched together with the state
// used to interpret its response.
type FrontierEntry struct {
	URL   string
	State VisitState
}

// Response is a fetched page paired with the state that requested it.
type Response struct {
	URL   string
	Body  string
	State VisitState
}

// Extraction is what an Extractor produces for one Response: follow-up
// entries for the frontier and at most one finished module.
type Extraction struct {
	Next   []FrontierEntry
	Module *Module
}

// Result is a single item of a crawl's output stream. Exactly one of
// Module and Err is set.
type Result struct {
	URL    string
	State  VisitState
	Module *Module
	Err    error
}
