package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
)

// Run executes the nations command.
func (c *NationsCmd) Run(deps *Dependencies) error {
	q, err := c.queryState()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fmkit.ErrorMessage(err))
		return err
	}

	session := deps.Session
	if c.Refresh || !session.Status().Loaded {
		if err := session.Refresh(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", fmkit.ErrorMessage(err))
			if !session.Status().Loaded {
				return err
			}
		}
	}

	nations := session.Nations()
	v := directory.Query(nations, q)
	if q.Page > v.PageCount {
		q = q.GoToPage(q.Page, v.PageCount)
		v = directory.Query(nations, q)
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	renderView(deps.Stdout, v, q, session.Status())
	return nil
}

func (c *NationsCmd) queryState() (fmkit.QueryState, error) {
	q := fmkit.NewQueryState()
	q.Search = c.Search
	q.Page = c.Page
	q.PageSize = c.Size

	category, err := fmkit.ParseCategoryFilter(c.Category)
	if err != nil {
		return q, err
	}
	q.Category = category

	if q.Sort, err = fmkit.ParseSort(c.Sort, c.Order); err != nil {
		return q, err
	}

	return q, q.Validate()
}
