// Package directory implements the nations directory: the query engine that
// derives a page of results from a record set, the service that refreshes
// the record set from its source, and the session that holds both for a
// presentation surface.
package directory

import (
	"slices"
	"strings"

	"github.com/fwojciec/fmkit"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Query filters, sorts and pages nations according to state.
//
// The pipeline runs in a fixed order: search on name, category filter,
// stable sort, page window. Category counts are taken from the full,
// unfiltered record set. Query never modifies nations.
func Query(nations []fmkit.Nation, state fmkit.QueryState) fmkit.View {
	mens, womens := fmkit.CountCategories(nations)

	filtered := filter(nations, state.Search, state.Category)
	if state.Sort.Active() {
		slices.SortStableFunc(filtered, comparator(state.Sort))
	}

	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = fmkit.DefaultPageSize
	}
	page := max(state.Page, 1)

	total := len(filtered)
	pageCount := fmkit.PageCount(total, pageSize)
	start := total
	if page <= pageCount {
		start = min((page-1)*pageSize, total)
	}
	end := min(start+pageSize, total)

	return fmkit.View{
		Nations:     filtered[start:end:end],
		TotalCount:  total,
		PageCount:   pageCount,
		MensCount:   mens,
		WomensCount: womens,
		Page:        page,
		PageSize:    pageSize,
	}
}

// filter returns a new slice holding the nations whose name contains
// search (case-insensitively) and that match category.
func filter(nations []fmkit.Nation, search string, category fmkit.CategoryFilter) []fmkit.Nation {
	fold := cases.Fold()
	needle := fold.String(search)

	out := make([]fmkit.Nation, 0, len(nations))
	for i := range nations {
		n := &nations[i]
		if needle != "" && !strings.Contains(fold.String(n.Name), needle) {
			continue
		}
		if !category.Match(n) {
			continue
		}
		out = append(out, *n)
	}
	return out
}

// comparator returns the ordering for an active sort.
func comparator(s fmkit.Sort) func(a, b fmkit.Nation) int {
	var cmp func(a, b fmkit.Nation) int

	switch s.Field {
	case fmkit.SortByName:
		col := collate.New(language.Und)
		cmp = func(a, b fmkit.Nation) int {
			return col.CompareString(a.Name, b.Name)
		}
	case fmkit.SortByNickname:
		col := collate.New(language.Und)
		cmp = func(a, b fmkit.Nation) int {
			return col.CompareString(a.Nickname, b.Nickname)
		}
	case fmkit.SortByNewgens:
		// Ratings outside the vocabulary rank -1, ahead of Excellent.
		cmp = func(a, b fmkit.Nation) int {
			return fmkit.RatingRank(a.Newgens) - fmkit.RatingRank(b.Newgens)
		}
	case fmkit.SortByCategory:
		cmp = func(a, b fmkit.Nation) int {
			return categoryRank(a) - categoryRank(b)
		}
	default:
		return func(a, b fmkit.Nation) int { return 0 }
	}

	if s.Direction == fmkit.SortDescending {
		return func(a, b fmkit.Nation) int { return -cmp(a, b) }
	}
	return cmp
}

func categoryRank(n fmkit.Nation) int {
	if n.IsWomens {
		return 1
	}
	return 0
}
