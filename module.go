package gridscrape

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// Quantity is an integer measurement that may be unknown.
// The zero value is unknown.
type Quantity struct {
	value int
	known bool
}

// Unknown is the quantity reported when a field is missing or unparsable.
var Unknown = Quantity{}

// Known returns a quantity holding n.
func Known(n int) Quantity {
	return Quantity{value: n, known: true}
}

// Int returns the value and whether it is known.
func (q Quantity) Int() (int, bool) {
	return q.value, q.known
}

// IsKnown reports whether q holds a value.
func (q Quantity) IsKnown() bool { return q.known }

// String returns the decimal value or "unknown".
func (q Quantity) String() string {
	if !q.known {
		return "unknown"
	}
	return strconv.Itoa(q.value)
}

// MarshalJSON encodes unknown quantities as null.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.known {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(q.value)), nil
}

// UnmarshalJSON decodes null as Unknown.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*q = Unknown
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Known(n)
	return nil
}

// Module represents a single catalog module scraped from its detail page.
// Text fields are empty when their selector matched nothing.
type Module struct {
	URL          string   `json:"url"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Width        Quantity `json:"width"` // HP
	Depth        Quantity `json:"depth"` // mm
	CurrentPos12 Quantity `json:"currentPos12"`
	CurrentNeg12 Quantity `json:"currentNeg12"`
	Current5V    Quantity `json:"current5v"`
	Description  string   `json:"description,omitempty"` // Markdown

	ScrapedAt time.Time `json:"scrapedAt"`
}

// Validate returns an error if the module contains invalid fields.
func (m *Module) Validate() error {
	if m.URL == "" {
		return Errorf(EINVALID, "module URL required")
	}
	if m.Name == "" {
		return Errorf(EINVALID, "module name required")
	}
	return nil
}

// ModuleWriter persists scraped modules.
type ModuleWriter interface {
	// SaveModule stores the module, replacing any earlier module with the same URL.
	SaveModule(ctx context.Context, m *Module) error
}

// ModuleStore writes modules with atomic semantics.
// SaveModule stages a module; Commit makes staged modules permanent;
// Abort discards them.
type ModuleStore interface {
	ModuleWriter
	Commit() error
	Abort() error
}

// ModuleFilter represents a filter for FindModules.
type ModuleFilter struct {
	Manufacturer *string `json:"manufacturer"`
	MaxWidth     *int    `json:"maxWidth"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ModuleService represents a service for managing scraped modules.
type ModuleService interface {
	ModuleWriter

	// FindModuleByURL retrieves a module by its detail page URL.
	// Returns ENOTFOUND if the module does not exist.
	FindModuleByURL(ctx context.Context, url string) (*Module, error)

	// FindModules retrieves modules matching the filter, ordered by name.
	FindModules(ctx context.Context, filter ModuleFilter) ([]*Module, error)

	// DeleteModule removes a module by URL.
	// Returns ENOTFOUND if the module does not exist.
	DeleteModule(ctx context.Context, url string) error
}
