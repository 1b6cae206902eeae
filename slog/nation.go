package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fmkit"
)

// Ensure LoggingNationService implements fmkit.NationService.
var _ fmkit.NationService = (*LoggingNationService)(nil)

// LoggingNationService wraps a NationService with logging.
type LoggingNationService struct {
	next   fmkit.NationService
	logger *slog.Logger
}

// NewLoggingNationService creates a new LoggingNationService.
func NewLoggingNationService(next fmkit.NationService, logger *slog.Logger) *LoggingNationService {
	return &LoggingNationService{next: next, logger: logger}
}

// FetchNations logs the outcome of a refresh. Failures are logged at
// warn level with the error code.
func (s *LoggingNationService) FetchNations(ctx context.Context) (nations []fmkit.Nation, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Warn("fetch nations",
				"code", fmkit.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		s.logger.Info("fetch nations",
			"count", len(nations),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.FetchNations(ctx)
}

// Ensure LoggingNationStore implements fmkit.NationStore.
var _ fmkit.NationStore = (*LoggingNationStore)(nil)

// LoggingNationStore wraps a NationStore with debug logging.
type LoggingNationStore struct {
	next   fmkit.NationStore
	logger *slog.Logger
}

// NewLoggingNationStore creates a new LoggingNationStore.
func NewLoggingNationStore(next fmkit.NationStore, logger *slog.Logger) *LoggingNationStore {
	return &LoggingNationStore{next: next, logger: logger}
}

func (s *LoggingNationStore) ReplaceNations(ctx context.Context, snapshot *fmkit.Snapshot, nations []fmkit.Nation) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("replace nations",
			"snapshot", snapshot.ID,
			"count", len(nations),
			"hash", snapshot.ContentHash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReplaceNations(ctx, snapshot, nations)
}

func (s *LoggingNationStore) FindNations(ctx context.Context) (nations []fmkit.Nation, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find nations",
			"count", len(nations),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindNations(ctx)
}

func (s *LoggingNationStore) FindLatestSnapshot(ctx context.Context) (*fmkit.Snapshot, error) {
	return s.next.FindLatestSnapshot(ctx)
}
