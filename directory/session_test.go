package directory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
	"github.com/fwojciec/fmkit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticService(nations []fmkit.Nation) *mock.NationService {
	return &mock.NationService{
		FetchNationsFn: func(context.Context) ([]fmkit.Nation, error) {
			return nations, nil
		},
	}
}

func TestSession_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("starts unloaded with default state", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService(nil))

		st := s.Status()
		assert.False(t, st.Loaded)
		assert.False(t, st.Loading)
		assert.Equal(t, fmkit.NewQueryState(), s.State())
		assert.Equal(t, 1, s.View().PageCount)
	})

	t.Run("loads records on success", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService(numbered(3)))

		require.NoError(t, s.Refresh(context.Background()))

		st := s.Status()
		assert.True(t, st.Loaded)
		assert.Equal(t, 3, st.Count)
		assert.Empty(t, st.Error)
		assert.False(t, st.FetchedAt.IsZero())
		assert.Equal(t, 3, s.View().TotalCount)
	})

	t.Run("empty result is loaded, not an error", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService([]fmkit.Nation{}))

		require.NoError(t, s.Refresh(context.Background()))

		st := s.Status()
		assert.True(t, st.Loaded)
		assert.Zero(t, st.Count)
		v := s.View()
		assert.Zero(t, v.TotalCount)
		assert.Equal(t, 1, v.PageCount)
	})

	t.Run("failed refresh keeps previous records and clears loading", func(t *testing.T) {
		t.Parallel()

		fail := false
		svc := &mock.NationService{
			FetchNationsFn: func(context.Context) ([]fmkit.Nation, error) {
				if fail {
					return nil, &fmkit.FetchError{StatusCode: 503, Status: "503 Service Unavailable"}
				}
				return numbered(4), nil
			},
		}
		s := directory.NewSession(svc)
		require.NoError(t, s.Refresh(context.Background()))

		fail = true
		err := s.Refresh(context.Background())

		var fe *fmkit.FetchError
		require.ErrorAs(t, err, &fe)
		st := s.Status()
		assert.Equal(t, "503 Service Unavailable", st.Error)
		assert.False(t, st.Loading)
		assert.True(t, st.Loaded)
		assert.Equal(t, 4, st.Count)
		assert.Equal(t, 4, s.View().TotalCount)
	})

	t.Run("new attempt clears previous error", func(t *testing.T) {
		t.Parallel()

		calls := 0
		svc := &mock.NationService{
			FetchNationsFn: func(context.Context) ([]fmkit.Nation, error) {
				calls++
				if calls == 1 {
					return nil, &fmkit.FetchError{StatusCode: 500, Status: "500 Internal Server Error"}
				}
				return numbered(1), nil
			},
		}
		s := directory.NewSession(svc)

		require.Error(t, s.Refresh(context.Background()))
		assert.False(t, s.Status().Loaded, "a failed first fetch leaves the session unloaded")

		require.NoError(t, s.Refresh(context.Background()))
		assert.Empty(t, s.Status().Error)
	})

	t.Run("reports loading while a fetch is in flight", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		release := make(chan struct{})
		svc := &mock.NationService{
			FetchNationsFn: func(context.Context) ([]fmkit.Nation, error) {
				close(started)
				<-release
				return numbered(2), nil
			},
		}
		s := directory.NewSession(svc)

		done := make(chan error, 1)
		go func() { done <- s.Refresh(context.Background()) }()

		<-started
		assert.True(t, s.Status().Loading)
		close(release)
		require.NoError(t, <-done)
		assert.False(t, s.Status().Loading)
	})

	t.Run("concurrent refreshes share one fetch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		svc := &mock.NationService{
			FetchNationsFn: func(context.Context) ([]fmkit.Nation, error) {
				calls.Add(1)
				once.Do(func() { close(started) })
				<-release
				return numbered(2), nil
			},
		}
		s := directory.NewSession(svc)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); _ = s.Refresh(context.Background()) }()
		<-started
		go func() { defer wg.Done(); _ = s.Refresh(context.Background()) }()
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 2, s.Status().Count)
	})

	t.Run("canceled caller does not cancel the shared fetch", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		svc := &mock.NationService{
			FetchNationsFn: func(ctx context.Context) ([]fmkit.Nation, error) {
				once.Do(func() { close(started) })
				<-release
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return numbered(3), nil
			},
		}
		s := directory.NewSession(svc)

		ctx, cancel := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() { first <- s.Refresh(ctx) }()
		<-started
		second := make(chan error, 1)
		go func() { second <- s.Refresh(context.Background()) }()
		time.Sleep(50 * time.Millisecond)
		cancel()
		close(release)

		require.NoError(t, <-first)
		require.NoError(t, <-second)
		assert.Equal(t, 3, s.Status().Count)
		assert.Empty(t, s.Status().Error)
	})
}

func TestSession_Restore(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	s := directory.NewSession(staticService(nil))

	s.Restore(numbered(5), fetchedAt)

	st := s.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, 5, st.Count)
	assert.Equal(t, fetchedAt, st.FetchedAt)
}

func TestSession_State(t *testing.T) {
	t.Parallel()

	t.Run("navigation is clamped to page count", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService(nil))
		s.Restore(numbered(25), time.Time{})

		assert.Equal(t, 1, s.PrevPage().Page)
		assert.Equal(t, 2, s.NextPage().Page)
		v := s.LastPage()
		assert.Equal(t, 3, v.Page)
		assert.Len(t, v.Nations, 5)
		assert.Equal(t, 3, s.NextPage().Page)
		assert.Equal(t, 1, s.FirstPage().Page)
		assert.Equal(t, 3, s.GoToPage(42).Page)
	})

	t.Run("search, category and page size reset the page", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService(nil))
		s.Restore(numbered(25), time.Time{})

		s.LastPage()
		assert.Equal(t, 1, s.Search("Nation").Page)

		s.LastPage()
		assert.Equal(t, 1, s.SetCategory(fmkit.CategoryMens).Page)

		s.LastPage()
		v, err := s.SetPageSize(20)
		require.NoError(t, err)
		assert.Equal(t, 1, v.Page)
		assert.Equal(t, 2, v.PageCount)
	})

	t.Run("sorting keeps the page", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService(nil))
		s.Restore(numbered(25), time.Time{})

		s.NextPage()
		v := s.ToggleSort(fmkit.SortByName)
		assert.Equal(t, 2, v.Page)
		assert.Equal(t, fmkit.SortAscending, s.State().Sort.Direction)

		s.ToggleSort(fmkit.SortByName)
		assert.Equal(t, fmkit.SortDescending, s.State().Sort.Direction)

		v = s.ToggleSort(fmkit.SortByName)
		assert.False(t, s.State().Sort.Active())
		assert.Equal(t, "Nation 11", v.Nations[0].Name, "upstream order restored")
	})

	t.Run("rejects page size outside allowed set", func(t *testing.T) {
		t.Parallel()

		s := directory.NewSession(staticService(nil))

		_, err := s.SetPageSize(15)

		assert.Equal(t, fmkit.EINVALID, fmkit.ErrorCode(err))
		assert.Equal(t, 10, s.State().PageSize)
	})
}
