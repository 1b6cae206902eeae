package fmkit

import "context"

// Fetcher retrieves the raw HTML of a page.
// Implementations present themselves as a regular browser because the
// nations source rejects plain scripted requests.
type Fetcher interface {
	// Fetch performs one GET of url and returns the response body.
	// Non-2xx responses and transport failures return a *FetchError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
