package fmkit

// NationExtractor turns the nations page HTML into records.
type NationExtractor interface {
	// ExtractNations returns one Nation per well-formed table row, in
	// document order. Rows without a name or id are skipped silently.
	// An error is returned only when the document cannot be read at all.
	ExtractNations(html string) ([]Nation, error)
}
