package main

import (
	"fmt"

	"github.com/fwojciec/gridscrape"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	modules, err := deps.Modules.FindModules(deps.Ctx, c.Filter())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gridscrape.ErrorMessage(err))
		return err
	}

	if len(modules) == 0 {
		fmt.Fprintln(deps.Stdout, "No modules found. Use 'gridscrape scrape --db' to collect some.")
		return nil
	}

	for _, m := range modules {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", m.Name, m.Manufacturer, hp(m.Width), m.URL)
	}

	return nil
}

func hp(q gridscrape.Quantity) string {
	n, ok := q.Int()
	if !ok {
		return "? HP"
	}
	return fmt.Sprintf("%d HP", n)
}
