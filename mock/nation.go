package mock

import (
	"context"

	"github.com/fwojciec/fmkit"
)

var _ fmkit.NationService = (*NationService)(nil)

// NationService is a mock implementation of fmkit.NationService.
type NationService struct {
	FetchNationsFn func(ctx context.Context) ([]fmkit.Nation, error)
}

func (s *NationService) FetchNations(ctx context.Context) ([]fmkit.Nation, error) {
	return s.FetchNationsFn(ctx)
}

var _ fmkit.NationStore = (*NationStore)(nil)

// NationStore is a mock implementation of fmkit.NationStore.
type NationStore struct {
	ReplaceNationsFn     func(ctx context.Context, snapshot *fmkit.Snapshot, nations []fmkit.Nation) error
	FindNationsFn        func(ctx context.Context) ([]fmkit.Nation, error)
	FindLatestSnapshotFn func(ctx context.Context) (*fmkit.Snapshot, error)
}

func (s *NationStore) ReplaceNations(ctx context.Context, snapshot *fmkit.Snapshot, nations []fmkit.Nation) error {
	return s.ReplaceNationsFn(ctx, snapshot, nations)
}

func (s *NationStore) FindNations(ctx context.Context) ([]fmkit.Nation, error) {
	return s.FindNationsFn(ctx)
}

func (s *NationStore) FindLatestSnapshot(ctx context.Context) (*fmkit.Snapshot, error) {
	return s.FindLatestSnapshotFn(ctx)
}
