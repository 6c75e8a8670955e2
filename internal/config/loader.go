package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "KUDOS_"
	EnvConfigPath = "KUDOS_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if KUDOS_CONFIG is set
//  3. env (prefix KUDOS_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfigPath))
}

// LoadFile is Load with an explicit file path; an empty path skips the file
// layer.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// KUDOS_TOP_TITLES -> top_titles. Underscores are kept to match the
	// flat koanf tags. List values are comma separated and label maps are
	// written as key=value pairs: KUDOS_METRICS_LABELS=env=prod,team=hr.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		switch key {
		case "sensitivity_multipliers", "metrics_stage_buckets":
			return key, splitList(value)
		case "metrics_labels":
			labels := make(map[string]interface{})
			for _, pair := range splitList(value) {
				k, v, _ := strings.Cut(pair, "=")
				if k = strings.TrimSpace(k); k != "" {
					labels[k] = strings.TrimSpace(v)
				}
			}
			return key, labels
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy. Slices are cleared first since decoding into a
	// populated slice keeps its tail.
	cfg := *base
	cfg.SensitivityMultipliers = nil
	cfg.MetricsStageBuckets = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if !k.Exists("sensitivity_multipliers") {
		cfg.SensitivityMultipliers = base.SensitivityMultipliers
	}
	if !k.Exists("metrics_stage_buckets") {
		cfg.MetricsStageBuckets = base.MetricsStageBuckets
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
