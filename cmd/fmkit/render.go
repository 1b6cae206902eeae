package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
)

// renderView prints the category tabs, the page of nations and the
// result window.
func renderView(w io.Writer, v fmkit.View, q fmkit.QueryState, st directory.Status) {
	fmt.Fprintln(w, tabs(v, q.Category))
	if q.Search != "" {
		fmt.Fprintf(w, "Search: %q\n", q.Search)
	}
	if st.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", st.Error)
	}
	fmt.Fprintln(w)

	if len(v.Nations) == 0 {
		if !st.Loaded {
			fmt.Fprintln(w, "No data loaded. Use refresh to fetch the nations listing.")
		} else {
			fmt.Fprintln(w, "No nations found")
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, footer(v))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\t%s\t%s\t%s\n",
		header("Nation", fmkit.SortByName, q.Sort),
		header("Nickname", fmkit.SortByNickname, q.Sort),
		header("Newgens", fmkit.SortByNewgens, q.Sort),
		header("Type", fmkit.SortByCategory, q.Sort),
	)
	for i := range v.Nations {
		n := &v.Nations[i]
		nickname := n.Nickname
		if nickname == "" {
			nickname = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.Start()+i, n.Name, nickname, n.Newgens, n.CategoryLabel())
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, footer(v))
}

// tabs renders the category tabs with the selected one bracketed.
func tabs(v fmkit.View, selected fmkit.CategoryFilter) string {
	items := []struct {
		category fmkit.CategoryFilter
		label    string
		count    int
	}{
		{fmkit.CategoryAll, "All", v.MensCount + v.WomensCount},
		{fmkit.CategoryMens, "Mens", v.MensCount},
		{fmkit.CategoryWomens, "Womens", v.WomensCount},
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		s := fmt.Sprintf("%s (%d)", it.label, it.count)
		if it.category == selected {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "  ")
}

// header marks the sorted column with an arrow.
func header(label string, field fmkit.SortField, s fmkit.Sort) string {
	if !s.Active() || s.Field != field {
		return label
	}
	if s.Direction == fmkit.SortDescending {
		return label + " ↓"
	}
	return label + " ↑"
}

func footer(v fmkit.View) string {
	return fmt.Sprintf("%s  ·  Page %d of %d  ·  %d per page", v.Summary(), v.Page, v.PageCount, v.PageSize)
}
