// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file and KUDOS_ environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/okian/kudos/pkg/metrics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// TopTitles is the length of the per-role top title lists.
	TopTitles int `koanf:"top_titles"`

	// TopPairs is the length of the top interaction pair list.
	TopPairs int `koanf:"top_pairs"`

	// MessageSamples is the number of shortest and longest messages kept.
	MessageSamples int `koanf:"message_samples"`

	// PreviewLength bounds message previews, in runes.
	PreviewLength int `koanf:"preview_length"`

	// DefaultBatchSize is used when classification metadata has no batch size.
	DefaultBatchSize int `koanf:"default_batch_size"`

	// SensitivityMultipliers are the people-per-title scenarios.
	SensitivityMultipliers []float64 `koanf:"sensitivity_multipliers"`

	// WorkerCount bounds concurrent run analyses.
	WorkerCount int `koanf:"worker_count"`

	// MetricsFile, when set, receives a Prometheus textfile export.
	MetricsFile string `koanf:"metrics_file"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLabels are constant labels added to every series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsStageBuckets are the stage duration histogram buckets in ms.
	MetricsStageBuckets []float64 `koanf:"metrics_stage_buckets"`

	// Pretty indents the JSON report.
	Pretty bool `koanf:"pretty"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		TopTitles:              15,
		TopPairs:               10,
		MessageSamples:         5,
		PreviewLength:          110,
		DefaultBatchSize:       50,
		SensitivityMultipliers: []float64{1.0, 1.25, 1.5, 2.0, 2.5},
		WorkerCount:            runtime.NumCPU(),
		MetricsEnabled:         true,
		MetricsNamespace:       metrics.DefaultNamespace,
		MetricsSubsystem:       metrics.DefaultSubsystem,
		MetricsStageBuckets:    slices.Clone(metrics.DefaultStageBuckets),
		Pretty:                 true,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	sizes := []struct {
		name string
		v    int
	}{
		{"top_titles", c.TopTitles},
		{"top_pairs", c.TopPairs},
		{"message_samples", c.MessageSamples},
		{"preview_length", c.PreviewLength},
		{"default_batch_size", c.DefaultBatchSize},
		{"worker_count", c.WorkerCount},
	}
	for _, s := range sizes {
		if s.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, s.name, s.v)
		}
	}
	if len(c.SensitivityMultipliers) == 0 {
		return fmt.Errorf("%w: sensitivity_multipliers must not be empty", ErrInvalidConfig)
	}
	for i, k := range c.SensitivityMultipliers {
		if k < 1 {
			return fmt.Errorf("%w: sensitivity multiplier %v is below 1", ErrInvalidConfig, k)
		}
		if i > 0 && k <= c.SensitivityMultipliers[i-1] {
			return fmt.Errorf("%w: sensitivity_multipliers must be strictly ascending", ErrInvalidConfig)
		}
	}
	for _, n := range []struct{ key, v string }{
		{"metrics_namespace", c.MetricsNamespace},
		{"metrics_subsystem", c.MetricsSubsystem},
	} {
		if !metrics.ValidName(n.v) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, n.key, n.v)
		}
	}
	for k := range c.MetricsLabels {
		if !metrics.ValidName(k) {
			return fmt.Errorf("%w: metrics label %q is not a valid label name", ErrInvalidConfig, k)
		}
	}
	if len(c.MetricsStageBuckets) == 0 {
		return fmt.Errorf("%w: metrics_stage_buckets must not be empty", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsStageBuckets); i++ {
		if c.MetricsStageBuckets[i] <= c.MetricsStageBuckets[i-1] {
			return fmt.Errorf("%w: metrics_stage_buckets must be strictly ascending", ErrInvalidConfig)
		}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// MetricsOptions turns the metrics settings into manager options.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithEnabled(c.MetricsEnabled),
		metrics.WithNamespace(c.MetricsNamespace),
		metrics.WithSubsystem(c.MetricsSubsystem),
		metrics.WithConstLabels(c.MetricsLabels),
		metrics.WithStageBuckets(c.MetricsStageBuckets),
	}
}
