package directory

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/fmkit"
	"golang.org/x/sync/singleflight"
)

// Status describes the load state of a Session.
type Status struct {
	// Loaded is true once a record set has been fetched or restored, even
	// if it was empty.
	Loaded  bool `json:"loaded"`
	Loading bool `json:"loading"`

	// Error holds the message of the last failed refresh. It is cleared
	// when a new refresh starts.
	Error string `json:"error,omitempty"`

	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Session holds the record set and query state behind a presentation
// surface. Concurrent refresh requests share a single fetch. A failed
// refresh keeps the previous record set.
//
// Session is safe for concurrent use.
type Session struct {
	service fmkit.NationService
	now     func() time.Time
	group   singleflight.Group

	mu        sync.Mutex
	nations   []fmkit.Nation
	state     fmkit.QueryState
	loaded    bool
	loading   bool
	err       error
	fetchedAt time.Time
}

// NewSession creates a Session with the default query state.
func NewSession(service fmkit.NationService) *Session {
	return &Session{
		service: service,
		now:     time.Now,
		state:   fmkit.NewQueryState(),
	}
}

// Restore seeds the session with a previously stored record set.
func (s *Session) Restore(nations []fmkit.Nation, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nations = nations
	s.fetchedAt = fetchedAt
	s.loaded = true
}

// Refresh fetches the record set and replaces it wholesale on success.
// On failure the previous record set stays visible and the error is
// recorded in Status and returned.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	// Shared by every waiting caller. The fetcher enforces its own timeout.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.service.FetchNations(shared)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return err
	}
	s.nations = v.([]fmkit.Nation)
	s.loaded = true
	s.fetchedAt = s.now()
	return nil
}

// Nations returns the current record set. Callers must not modify it.
func (s *Session) Nations() []fmkit.Nation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nations
}

// Status returns the current load state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Loaded:    s.loaded,
		Loading:   s.loading,
		Count:     len(s.nations),
		FetchedAt: s.fetchedAt,
	}
	if s.err != nil {
		st.Error = fmkit.ErrorMessage(s.err)
	}
	return st
}

// State returns the current query state.
func (s *Session) State() fmkit.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the current page of results.
func (s *Session) View() fmkit.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Query(s.nations, s.state)
}

// Search sets the search text.
func (s *Session) Search(text string) fmkit.View {
	return s.update(func(q fmkit.QueryState, _ int) fmkit.QueryState {
		return q.WithSearch(text)
	})
}

// SetCategory selects a category tab.
func (s *Session) SetCategory(c fmkit.CategoryFilter) fmkit.View {
	return s.update(func(q fmkit.QueryState, _ int) fmkit.QueryState {
		return q.WithCategory(c)
	})
}

// ToggleSort applies a "sort by field" command.
func (s *Session) ToggleSort(field fmkit.SortField) fmkit.View {
	return s.update(func(q fmkit.QueryState, _ int) fmkit.QueryState {
		return q.WithSort(field)
	})
}

// SetPageSize selects a page size. Returns EINVALID for sizes outside
// fmkit.PageSizes, leaving the state unchanged.
func (s *Session) SetPageSize(n int) (fmkit.View, error) {
	if !fmkit.ValidPageSize(n) {
		return s.View(), fmkit.Errorf(fmkit.EINVALID, "page size must be one of %v", fmkit.PageSizes)
	}
	return s.update(func(q fmkit.QueryState, _ int) fmkit.QueryState {
		q, _ = q.WithPageSize(n)
		return q
	}), nil
}

// FirstPage moves to the first page.
func (s *Session) FirstPage() fmkit.View {
	return s.update(func(q fmkit.QueryState, _ int) fmkit.QueryState {
		return q.FirstPage()
	})
}

// PrevPage moves one page back.
func (s *Session) PrevPage() fmkit.View {
	return s.update(func(q fmkit.QueryState, pages int) fmkit.QueryState {
		return q.PrevPage(pages)
	})
}

// NextPage moves one page forward.
func (s *Session) NextPage() fmkit.View {
	return s.update(func(q fmkit.QueryState, pages int) fmkit.QueryState {
		return q.NextPage(pages)
	})
}

// LastPage moves to the last page.
func (s *Session) LastPage() fmkit.View {
	return s.update(func(q fmkit.QueryState, pages int) fmkit.QueryState {
		return q.LastPage(pages)
	})
}

// GoToPage moves to page n, clamped to the available pages.
func (s *Session) GoToPage(n int) fmkit.View {
	return s.update(func(q fmkit.QueryState, pages int) fmkit.QueryState {
		return q.GoToPage(n, pages)
	})
}

// update applies fn to the query state and returns the new view.
// fn receives the page count of the view before the change.
func (s *Session) update(fn func(q fmkit.QueryState, pageCount int) fmkit.QueryState) fmkit.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := Query(s.nations, s.state)
	s.state = fn(s.state, before.PageCount)
	return Query(s.nations, s.state)
}
