package main

import (
	"fmt"

	"github.com/fwojciec/gridscrape"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return gridscrape.Errorf(gridscrape.EINVALID, "use --force to confirm deletion")
	}

	module, err := deps.Modules.FindModuleByURL(deps.Ctx, c.URL)
	if gridscrape.ErrorCode(err) == gridscrape.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: module %q not found. Use 'gridscrape list' to see stored modules.\n", c.URL)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gridscrape.ErrorMessage(err))
		return err
	}

	if err := deps.Modules.DeleteModule(deps.Ctx, module.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gridscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted module %q\n", module.Name)
	return nil
}
