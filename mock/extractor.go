package mock

import "github.com/fwojciec/fmkit"

var _ fmkit.NationExtractor = (*NationExtractor)(nil)

// NationExtractor is a mock implementation of fmkit.NationExtractor.
type NationExtractor struct {
	ExtractNationsFn func(html string) ([]fmkit.Nation, error)
}

func (e *NationExtractor) ExtractNations(html string) ([]fmkit.Nation, error) {
	return e.ExtractNationsFn(html)
}
