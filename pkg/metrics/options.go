// Package metrics provides Prometheus metrics for the kudos analytics engine.
package metrics

import (
	"regexp"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidName reports whether s can be used as a namespace, subsystem or
// constant label name.
func ValidName(s string) bool { return namePattern.MatchString(s) }

// WithNamespace replaces the "kudos" namespace. Invalid names are ignored.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if ValidName(namespace) {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "engine" subsystem. Invalid names are ignored.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if ValidName(subsystem) {
			m.subsystem = subsystem
		}
	}
}

// WithStageBuckets sets the stage duration histogram buckets in
// milliseconds. Buckets that are not strictly ascending are ignored.
func WithStageBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) == 0 {
			return
		}
		for i := 1; i < len(buckets); i++ {
			if buckets[i] <= buckets[i-1] {
				return
			}
		}
		m.stageBuckets = slices.Clone(buckets)
	}
}

// WithEnabled turns recording on or off. A disabled manager still registers
// its collectors so exports keep a stable shape.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithConstLabels attaches labels such as environment or team to every
// series. The map is copied and entries with invalid names are dropped.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		out := make(prometheus.Labels, len(labels))
		for k, v := range labels {
			if ValidName(k) {
				out[k] = v
			}
		}
		m.constLabels = out
	}
}

// WithPrometheusRegistry registers the metrics on registry instead of a
// private one.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
