package mock

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/fmkit"
)

var _ fmkit.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of fmkit.Fetcher.
// A nil CloseFn makes Close a no-op.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error

	calls atomic.Int32
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// Calls returns how many times Fetch was invoked.
func (f *Fetcher) Calls() int {
	return int(f.calls.Load())
}
