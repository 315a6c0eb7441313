package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/cwbudde/algo-erp/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		withInput := func(c *config.Config) { c.Input.Path = "recording.parquet" }

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "", withInput)

			convey.Convey("Then the oddball defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Input.Channels, convey.ShouldResemble, []string{"o1", "o2", "t3", "t4"})
				convey.So(cfg.Input.SampleRate, convey.ShouldEqual, 250)
				convey.So(cfg.Input.EventCodes, convey.ShouldResemble, []int{1, 2, 10000, 10001})
				convey.So(cfg.Filter.Order, convey.ShouldEqual, 5)
				convey.So(cfg.Filter.Method, convey.ShouldEqual, "iir")
				convey.So(cfg.Epochs.TMin, convey.ShouldEqual, -0.2)
				convey.So(cfg.Epochs.TMax, convey.ShouldEqual, 0.8)
				convey.So(cfg.Epochs.EventID, convey.ShouldResemble, map[string]int{"Standard": 1, "Odd": 2})
				convey.So(cfg.Plot.Band, convey.ShouldResemble, []float64{0.25, 0.35})
			})
		})

		convey.Convey("When the input path is missing", func() {
			_, err := config.Load(ctx, "")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfig(t, `
input:
  path: data/session1.csv
  sample_rate: 500
filter:
  method: fir
  low_hz: 0.5
  high_hz: 30
  notch_hz: [50, 100]
epochs:
  tmin: -0.1
  tmax: 0.6
  event_id:
    Frequent: 1
    Rare: 2
  baseline: [-0.1, 0]
plot:
  target: Rare
  non_target: Frequent
`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Input.Path, convey.ShouldEqual, "data/session1.csv")
				convey.So(cfg.Input.SampleRate, convey.ShouldEqual, 500)
				convey.So(cfg.Filter.Method, convey.ShouldEqual, "fir")
				convey.So(cfg.Filter.NotchHz, convey.ShouldResemble, []float64{50, 100})
				convey.So(cfg.Epochs.Baseline, convey.ShouldResemble, []float64{-0.1, 0})
			})

			convey.Convey("Then the event mapping replaces the default one", func() {
				convey.So(cfg.Epochs.EventID, convey.ShouldResemble, map[string]int{"Frequent": 1, "Rare": 2})
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("ERP_INPUT__PATH", "env.csv")
			_ = os.Setenv("ERP_LOG_LEVEL", "debug")
			_ = os.Setenv("ERP_FILTER__HIGH_HZ", "30")
			_ = os.Setenv("ERP_PLOT__ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then they override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Input.Path, convey.ShouldEqual, "env.csv")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Filter.HighHz, convey.ShouldEqual, 30)
				convey.So(cfg.Plot.Enabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When options and env disagree", func() {
			_ = os.Setenv("ERP_INPUT__PATH", "env.csv")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "", withInput)

			convey.Convey("Then options win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Input.Path, convey.ShouldEqual, "recording.parquet")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := config.Load(cctx, "", withInput)

			convey.Convey("Then loading stops", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erp.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix) {
			_ = os.Unsetenv(strings.SplitN(kv, "=", 2)[0])
		}
	}
}
