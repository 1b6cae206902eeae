package fmkit

import (
	"fmt"
	"slices"
	"strings"
)

// CategoryFilter restricts the directory to one category of nations.
type CategoryFilter string

// CategoryFilter values.
const (
	CategoryAll    CategoryFilter = "all"
	CategoryMens   CategoryFilter = "mens"
	CategoryWomens CategoryFilter = "womens"
)

// ParseCategoryFilter converts user input into a CategoryFilter.
// An empty string selects CategoryAll.
func ParseCategoryFilter(s string) (CategoryFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return CategoryAll, nil
	case "mens", "men", "m":
		return CategoryMens, nil
	case "womens", "women", "w":
		return CategoryWomens, nil
	}
	return "", Errorf(EINVALID, "unknown category %q (want all, mens or womens)", s)
}

// Match reports whether the nation belongs to the filtered category.
func (c CategoryFilter) Match(n *Nation) bool {
	switch c {
	case CategoryMens:
		return !n.IsWomens
	case CategoryWomens:
		return n.IsWomens
	}
	return true
}

// SortField names a sortable directory column.
type SortField string

// SortField values. SortFieldNone means no active sort.
const (
	SortFieldNone  SortField = ""
	SortByName     SortField = "name"
	SortByNickname SortField = "nickname"
	SortByNewgens  SortField = "newgensRating"
	SortByCategory SortField = "category"
)

// ParseSortField converts user input into a SortField.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortFieldNone, nil
	case "name":
		return SortByName, nil
	case "nickname":
		return SortByNickname, nil
	case "newgens", "newgensrating", "rating":
		return SortByNewgens, nil
	case "category", "type":
		return SortByCategory, nil
	}
	return "", Errorf(EINVALID, "unknown sort field %q (want name, nickname, newgens or category)", s)
}

// SortDirection is the tri-state sort direction.
type SortDirection string

// SortDirection values.
const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection converts user input into a SortDirection.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	}
	return "", Errorf(EINVALID, "unknown sort order %q (want asc or desc)", s)
}

// Sort is the active sort column and direction.
// The zero value means no sorting; a direction without a field cannot be
// represented because NewSort and Toggle both collapse it to the zero value.
type Sort struct {
	Field     SortField     `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// NewSort returns a Sort, collapsing a missing field or direction to no sort.
func NewSort(field SortField, dir SortDirection) Sort {
	if field == SortFieldNone || dir == SortNone {
		return Sort{}
	}
	return Sort{Field: field, Direction: dir}
}

// ParseSort converts a user supplied field and order into a Sort.
// A field without an order sorts ascending.
func ParseSort(field, order string) (Sort, error) {
	f, err := ParseSortField(field)
	if err != nil {
		return Sort{}, err
	}
	d, err := ParseSortDirection(order)
	if err != nil {
		return Sort{}, err
	}
	if d == SortNone && strings.TrimSpace(order) == "" {
		d = SortAscending
	}
	return NewSort(f, d), nil
}

// Active reports whether the sort reorders anything.
func (s Sort) Active() bool {
	return s.Field != SortFieldNone && s.Direction != SortNone
}

// Toggle returns the state after a "sort by field" command.
// Repeating the active field cycles ascending, descending, none.
// A different field starts at ascending.
func (s Sort) Toggle(field SortField) Sort {
	if field == SortFieldNone {
		return Sort{}
	}
	if !s.Active() || s.Field != field {
		return Sort{Field: field, Direction: SortAscending}
	}
	if s.Direction == SortAscending {
		return Sort{Field: field, Direction: SortDescending}
	}
	return Sort{}
}

// PageSizes lists the allowed page sizes.
var PageSizes = []int{10, 20, 30, 50, 100}

// DefaultPageSize is the page size of a fresh QueryState.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// PageCount returns the number of pages needed for total items.
// It is never less than 1, even for an empty result.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// QueryState is the user-controlled view state of the nations directory.
// It is a value: every mutation returns a new QueryState.
type QueryState struct {
	Search   string         `json:"search"`
	Category CategoryFilter `json:"category"`
	Sort     Sort           `json:"sort"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// NewQueryState returns the default state: all nations, unsorted, first page of 10.
func NewQueryState() QueryState {
	return QueryState{
		Category: CategoryAll,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Validate returns an error if the state contains invalid fields.
func (q QueryState) Validate() error {
	switch q.Category {
	case CategoryAll, CategoryMens, CategoryWomens:
	default:
		return Errorf(EINVALID, "unknown category %q", q.Category)
	}
	switch q.Sort.Field {
	case SortFieldNone, SortByName, SortByNickname, SortByNewgens, SortByCategory:
	default:
		return Errorf(EINVALID, "unknown sort field %q", q.Sort.Field)
	}
	switch q.Sort.Direction {
	case SortNone, SortAscending, SortDescending:
	default:
		return Errorf(EINVALID, "unknown sort direction %q", q.Sort.Direction)
	}
	if q.Page < 1 {
		return Errorf(EINVALID, "page must be at least 1")
	}
	if !ValidPageSize(q.PageSize) {
		return Errorf(EINVALID, "page size must be one of %v", PageSizes)
	}
	return nil
}

// WithSearch sets the search text and returns to the first page.
func (q QueryState) WithSearch(text string) QueryState {
	q.Search = text
	q.Page = 1
	return q
}

// WithCategory sets the category filter and returns to the first page.
func (q QueryState) WithCategory(c CategoryFilter) QueryState {
	q.Category = c
	q.Page = 1
	return q
}

// WithPageSize sets the page size and returns to the first page.
// Returns EINVALID if n is not one of PageSizes.
func (q QueryState) WithPageSize(n int) (QueryState, error) {
	if !ValidPageSize(n) {
		return q, Errorf(EINVALID, "page size must be one of %v", PageSizes)
	}
	q.PageSize = n
	q.Page = 1
	return q, nil
}

// WithSort applies a "sort by field" command. The page is kept.
func (q QueryState) WithSort(field SortField) QueryState {
	q.Sort = q.Sort.Toggle(field)
	return q
}

// GoToPage moves to page n clamped to [1, pageCount].
func (q QueryState) GoToPage(n, pageCount int) QueryState {
	q.Page = max(1, min(n, max(1, pageCount)))
	return q
}

// FirstPage moves to page 1.
func (q QueryState) FirstPage() QueryState {
	q.Page = 1
	return q
}

// PrevPage moves one page back, stopping at page 1.
func (q QueryState) PrevPage(pageCount int) QueryState {
	return q.GoToPage(q.Page-1, pageCount)
}

// NextPage moves one page forward, stopping at pageCount.
func (q QueryState) NextPage(pageCount int) QueryState {
	return q.GoToPage(q.Page+1, pageCount)
}

// LastPage moves to pageCount.
func (q QueryState) LastPage(pageCount int) QueryState {
	return q.GoToPage(pageCount, pageCount)
}

// View is the filtered, sorted and paged result of a query.
type View struct {
	// Nations holds the records of the requested page.
	Nations []Nation `json:"nations"`

	// TotalCount is the number of records after filtering.
	TotalCount int `json:"totalCount"`
	PageCount  int `json:"pageCount"`

	// MensCount and WomensCount are computed over the unfiltered record set.
	MensCount   int `json:"mensCount"`
	WomensCount int `json:"womensCount"`

	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Start returns the 1-based position of the first record on the page,
// or 0 when the page holds no records.
func (v *View) Start() int {
	if !v.inRange() {
		return 0
	}
	return (v.Page-1)*v.PageSize + 1
}

// End returns the 1-based position of the last record on the page,
// or 0 when the page holds no records.
func (v *View) End() int {
	if !v.inRange() {
		return 0
	}
	return min((v.Page-1)*v.PageSize+v.PageSize, v.TotalCount)
}

// inRange reports whether Page addresses at least one record. It divides
// rather than multiplies so huge page numbers cannot overflow.
func (v *View) inRange() bool {
	if v.TotalCount <= 0 || v.PageSize <= 0 || v.Page < 1 {
		return false
	}
	return v.Page-1 <= (v.TotalCount-1)/v.PageSize
}

// Summary describes the visible window, e.g. "Showing 1 to 10 of 25 results".
func (v *View) Summary() string {
	if v.TotalCount == 0 {
		return "No results"
	}
	return fmt.Sprintf("Showing %d to %d of %d results", v.Start(), v.End(), v.TotalCount)
}
