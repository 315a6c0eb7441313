// Package metrics records per-run analysis metrics on a private Prometheus
// registry and writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "erp"

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace of all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithConstLabels attaches labels to every metric, e.g. the run id.
func WithConstLabels(labels map[string]string) Option {
	return func(r *Recorder) {
		if labels != nil {
			r.constLabels = labels
		}
	}
}

// Recorder holds the metrics of one analysis run.
type Recorder struct {
	namespace   string
	constLabels prometheus.Labels
	registry    *prometheus.Registry

	samples       prometheus.Gauge
	channels      prometheus.Gauge
	events        *prometheus.GaugeVec
	trials        *prometheus.GaugeVec
	drops         *prometheus.CounterVec
	stageDuration *prometheus.GaugeVec
	peakAmplitude *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	gauge := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace:   r.namespace,
			Name:        name,
			Help:        help,
			ConstLabels: r.constLabels,
		}
	}

	r.samples = auto.NewGauge(gauge("recording_samples", "Retained samples per channel."))
	r.channels = auto.NewGauge(gauge("recording_channels", "Channels in the recording."))
	r.events = auto.NewGaugeVec(gauge("events", "Retained events per code."), []string{"code"})
	r.trials = auto.NewGaugeVec(gauge("trials", "Trials per condition."), []string{"condition"})
	r.stageDuration = auto.NewGaugeVec(
		gauge("stage_duration_seconds", "Wall time of each pipeline stage."), []string{"stage"})
	r.peakAmplitude = auto.NewGaugeVec(
		gauge("peak_amplitude", "Peak amplitude in the measure window."), []string{"condition", "channel"})
	r.lastRun = auto.NewGauge(gauge("last_run_timestamp_seconds", "Unix time the run finished."))
	r.drops = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "dropped_epochs_total",
		Help:        "Events that produced no trial, by reason.",
		ConstLabels: r.constLabels,
	}, []string{"reason"})

	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// SetRecording records the shape of the loaded recording.
func (r *Recorder) SetRecording(channels, samples int) {
	r.channels.Set(float64(channels))
	r.samples.Set(float64(samples))
}

// SetEvents records the number of retained events per code.
func (r *Recorder) SetEvents(counts map[int]int) {
	for code, n := range counts {
		r.events.WithLabelValues(fmt.Sprint(code)).Set(float64(n))
	}
}

// SetTrials records the number of trials of one condition.
func (r *Recorder) SetTrials(condition string, n int) {
	r.trials.WithLabelValues(condition).Set(float64(n))
}

// AddDrop counts one dropped epoch.
func (r *Recorder) AddDrop(reason string) {
	r.drops.WithLabelValues(reason).Inc()
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// SetPeak records a peak amplitude measure.
func (r *Recorder) SetPeak(condition, channel string, amplitude float64) {
	r.peakAmplitude.WithLabelValues(condition, channel).Set(amplitude)
}

// MarkFinished stamps the run completion time.
func (r *Recorder) MarkFinished(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path atomically, creating parent
// directories.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
