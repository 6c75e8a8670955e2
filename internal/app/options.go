package service

import (
	"time"

	"github.com/okian/kudos/pkg/logger"
	"github.com/okian/kudos/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records to m instead of the global metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithWorkerCount sets how many runs are analyzed concurrently.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithTopTitles sets the length of the per-role top title lists.
func WithTopTitles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topTitles = n
		}
	}
}

// WithTopPairs sets the length of the top interaction pair list.
func WithTopPairs(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topPairs = n
		}
	}
}

// WithMessageSamples sets how many shortest and longest messages are kept.
func WithMessageSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.messageSamples = n
		}
	}
}

// WithPreviewLength sets the message preview length in runes.
func WithPreviewLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.previewLength = n
		}
	}
}

// WithSensitivityMultipliers sets the population sensitivity scenarios.
func WithSensitivityMultipliers(ks []float64) Option {
	return func(s *Service) {
		if len(ks) > 0 {
			s.multipliers = ks
		}
	}
}

// WithDefaultBatchSize sets the batch size assumed when run metadata has none.
func WithDefaultBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
