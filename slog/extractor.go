package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/fmkit"
)

// Ensure LoggingExtractor implements fmkit.NationExtractor.
var _ fmkit.NationExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a NationExtractor with debug logging.
type LoggingExtractor struct {
	next   fmkit.NationExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next fmkit.NationExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractNations logs the number of rows kept per category.
func (e *LoggingExtractor) ExtractNations(html string) (nations []fmkit.Nation, err error) {
	defer func(begin time.Time) {
		mens, womens := fmkit.CountCategories(nations)
		e.logger.Debug("extract nations",
			"bytes", len(html),
			"mens", mens,
			"womens", womens,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractNations(html)
}
