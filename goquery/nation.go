// Package goquery extracts nation records from the sortitoutsi.net nations
// page using CSS selectors.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/fmkit"
)

// Ensure NationExtractor implements fmkit.NationExtractor at compile time.
var _ fmkit.NationExtractor = (*NationExtractor)(nil)

// Schema maps the page structure onto Nation fields. Every structural
// assumption about the upstream markup lives here, so a markup change only
// needs a new Schema.
type Schema struct {
	// Rows selects one element per nation inside the nations table body.
	Rows string

	// WomensClass marks the women's variant of a nation, either on the
	// row itself or on an element inside it.
	WomensClass string

	// Logo selects the flag image inside the row.
	Logo string

	// TitleCell selects the cell holding the title link and nickname.
	TitleCell string

	// TitleLink selects the link to the nation page inside TitleCell.
	TitleLink string

	// Nickname selects the muted secondary text inside TitleCell.
	Nickname string

	// Cells selects the data cells among a row's children.
	Cells string

	// RatingCell is the 0-based index among Cells of the newgens rating.
	RatingCell int

	// IDPattern extracts the nation id from the detail URL. The first
	// capture group is the id.
	IDPattern *regexp.Regexp
}

// DefaultSchema matches the sortitoutsi.net nations table.
func DefaultSchema() Schema {
	return Schema{
		Rows:        "table tbody tr",
		WomensClass: "womens",
		Logo:        "td.icon img",
		TitleCell:   "td.title",
		TitleLink:   "a",
		Nickname:    ".text-muted",
		Cells:       "td",
		RatingCell:  2,
		IDPattern:   regexp.MustCompile(`/nation/(\d+)/`),
	}
}

// NationExtractor implements fmkit.NationExtractor using goquery.
type NationExtractor struct {
	schema Schema
}

// Option configures a NationExtractor.
type Option func(*NationExtractor)

// WithSchema replaces the default page schema.
func WithSchema(s Schema) Option {
	return func(e *NationExtractor) {
		e.schema = s
	}
}

// NewNationExtractor creates a new NationExtractor.
func NewNationExtractor(opts ...Option) *NationExtractor {
	e := &NationExtractor{schema: DefaultSchema()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractNations parses html and returns the nations in table order.
func (e *NationExtractor) ExtractNations(html string) ([]fmkit.Nation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmkit.Errorf(fmkit.EINVALID, "failed to parse HTML: %v", err)
	}

	nations := []fmkit.Nation{}
	doc.Find(e.schema.Rows).Each(func(_ int, row *goquery.Selection) {
		if n, ok := e.extractRow(row); ok {
			nations = append(nations, n)
		}
	})

	return nations, nil
}

// extractRow maps one row onto a Nation. It reports false when the row
// lacks a name or an id.
func (e *NationExtractor) extractRow(row *goquery.Selection) (fmkit.Nation, bool) {
	s := e.schema
	title := row.Find(s.TitleCell).First()
	link := title.Find(s.TitleLink).First()
	href, _ := link.Attr("href")

	n := fmkit.Nation{
		ID:        matchID(s.IDPattern, href),
		Name:      strings.TrimSpace(link.Text()),
		Nickname:  strings.TrimSpace(title.Find(s.Nickname).First().Text()),
		LogoURL:   imageSource(row.Find(s.Logo).First()),
		Newgens:   strings.TrimSpace(row.ChildrenFiltered(s.Cells).Eq(s.RatingCell).Text()),
		IsWomens:  hasMarker(row, s.WomensClass),
		DetailURL: strings.TrimSpace(href),
	}

	if n.Name == "" || n.ID == "" {
		return fmkit.Nation{}, false
	}
	return n, true
}

// matchID returns the first capture of pattern in href, or "".
func matchID(pattern *regexp.Regexp, href string) string {
	if pattern == nil || href == "" {
		return ""
	}
	m := pattern.FindStringSubmatch(href)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// imageSource returns the image URL, preferring src over lazy-load attributes.
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// hasMarker reports whether the row or any of its descendants carries class.
func hasMarker(row *goquery.Selection, class string) bool {
	if class == "" {
		return false
	}
	return row.HasClass(class) || row.Find("."+class).Length() > 0
}
