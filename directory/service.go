package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/fmkit"
)

// Ensure Service implements fmkit.NationService at compile time.
var _ fmkit.NationService = (*Service)(nil)

// Service refreshes the nations directory from its source.
// It fetches the page, extracts the records and, when Store is set,
// replaces the stored snapshot.
type Service struct {
	Fetcher   fmkit.Fetcher
	Extractor fmkit.NationExtractor

	// Store is optional. When nil, records are not persisted.
	Store fmkit.NationStore

	// SourceURL defaults to fmkit.DefaultSourceURL.
	SourceURL string

	// Now defaults to time.Now.
	Now func() time.Time

	// Logger receives store failures. Defaults to slog.Default.
	Logger *slog.Logger
}

// FetchNations performs one retrieval of the nations page.
// Fetch failures are returned unchanged so callers can report them.
// A store failure is logged and does not fail the refresh.
func (s *Service) FetchNations(ctx context.Context) ([]fmkit.Nation, error) {
	sourceURL := s.SourceURL
	if sourceURL == "" {
		sourceURL = fmkit.DefaultSourceURL
	}

	html, err := s.Fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	nations, err := s.Extractor.ExtractNations(html)
	if err != nil {
		return nil, err
	}

	if s.Store != nil {
		snapshot := &fmkit.Snapshot{
			SourceURL:   sourceURL,
			ContentHash: ComputeHash(html),
			Count:       len(nations),
			FetchedAt:   s.now(),
		}
		if err := s.Store.ReplaceNations(ctx, snapshot, nations); err != nil {
			s.logger().Warn("failed to save nations snapshot",
				"url", sourceURL,
				"count", len(nations),
				"error", err,
			)
		}
	}

	return nations, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ComputeHash returns a short hash of the fetched page, stored with each
// snapshot so unchanged pages can be recognised.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
