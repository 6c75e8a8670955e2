package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/kudos/internal/config"
	"github.com/okian/kudos/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("KUDOS_TOP_TITLES", "20")
			_ = os.Setenv("KUDOS_WORKER_COUNT", "3")
			_ = os.Setenv("KUDOS_PRETTY", "false")
			_ = os.Setenv("KUDOS_SENSITIVITY_MULTIPLIERS", "1,2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopTitles, convey.ShouldEqual, 20)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.Pretty, convey.ShouldBeFalse)
				convey.So(cfg.SensitivityMultipliers, convey.ShouldResemble, []float64{1, 2})
				convey.So(cfg.TopPairs, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
log_format: json
top_pairs: 5
default_batch_size: 25
sensitivity_multipliers: [1.0, 3.0]
metrics_file: /tmp/kudos.prom
`)
			_ = os.Setenv("KUDOS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.TopPairs, convey.ShouldEqual, 5)
				convey.So(cfg.DefaultBatchSize, convey.ShouldEqual, 25)
				convey.So(cfg.SensitivityMultipliers, convey.ShouldResemble, []float64{1, 3})
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/kudos.prom")
				convey.So(cfg.TopTitles, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "top_pairs: 5\nworker_count: 8\n")
			_ = os.Setenv("KUDOS_CONFIG", tmpFile)
			_ = os.Setenv("KUDOS_WORKER_COUNT", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TopPairs, convey.ShouldEqual, 5)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("KUDOS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.LoadFile(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When metrics settings come from the environment", func() {
			_ = os.Setenv("KUDOS_METRICS_NAMESPACE", "awards")
			_ = os.Setenv("KUDOS_METRICS_ENABLED", "false")
			_ = os.Setenv("KUDOS_METRICS_LABELS", "env=prod, team = people")
			_ = os.Setenv("KUDOS_METRICS_STAGE_BUCKETS", "1, 10,100")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then lists and label pairs are decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "awards")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "engine")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"env": "prod", "team": "people"})
				convey.So(cfg.MetricsStageBuckets, convey.ShouldResemble, []float64{1, 10, 100})
			})
		})

		convey.Convey("When metrics labels come from the YAML file", func() {
			tmpFile := createTempConfigFile(t, "metrics_subsystem: nightly\nmetrics_labels:\n  env: staging\n")
			_ = os.Setenv("KUDOS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the map is loaded and buckets keep their default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "nightly")
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"env": "staging"})
				convey.So(cfg.MetricsStageBuckets, convey.ShouldResemble, metrics.DefaultStageBuckets)
			})
		})

		convey.Convey("When the metrics namespace is not a valid name", func() {
			_ = os.Setenv("KUDOS_METRICS_NAMESPACE", "my-app")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_namespace")
			})
		})

		convey.Convey("When loading config with an invalid value", func() {
			_ = os.Setenv("KUDOS_PREVIEW_LENGTH", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "preview_length")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// createTempConfigFile creates a temporary YAML config file.
func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "kudos.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearConfigEnvVars clears all KUDOS_ environment variables.
func clearConfigEnvVars() {
	for _, key := range []string{
		"KUDOS_CONFIG", "KUDOS_LOG_LEVEL", "KUDOS_LOG_FORMAT", "KUDOS_TOP_TITLES",
		"KUDOS_TOP_PAIRS", "KUDOS_MESSAGE_SAMPLES", "KUDOS_PREVIEW_LENGTH",
		"KUDOS_DEFAULT_BATCH_SIZE", "KUDOS_SENSITIVITY_MULTIPLIERS", "KUDOS_WORKER_COUNT",
		"KUDOS_METRICS_FILE", "KUDOS_PRETTY", "KUDOS_METRICS_ENABLED", "KUDOS_METRICS_NAMESPACE",
		"KUDOS_METRICS_SUBSYSTEM", "KUDOS_METRICS_LABELS", "KUDOS_METRICS_STAGE_BUCKETS",
	} {
		_ = os.Unsetenv(key)
	}
}
