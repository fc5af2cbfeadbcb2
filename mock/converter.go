package mock

import "github.com/fwojciec/gridscrape"

var _ gridscrape.Converter = (*Converter)(nil)

// Converter is a mock implementation of gridscrape.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
