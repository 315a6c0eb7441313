// Package config defines the analysis configuration and its loading.
//
// A Config is built from defaults ([New]), optionally overlaid with a YAML
// file and then with ERP_-prefixed environment variables ([Load]). Nested
// keys use a double underscore in the environment, so ERP_FILTER__LOW_HZ
// sets filter.low_hz.
package config

// Config is the full analysis configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// LogFormat selects the slog handler: json or text.
	LogFormat string `koanf:"log_format" validate:"oneof=json text"`

	Input   InputConfig   `koanf:"input"`
	Filter  FilterConfig  `koanf:"filter"`
	Epochs  EpochsConfig  `koanf:"epochs"`
	Measure MeasureConfig `koanf:"measure"`
	Plot    PlotConfig    `koanf:"plot"`
	Export  ExportConfig  `koanf:"export"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// InputConfig locates the recording and describes its columns.
type InputConfig struct {
	Path string `koanf:"path" validate:"required"`
	// Format overrides extension detection: csv, tsv, parquet or xlsx.
	Format      string   `koanf:"format" validate:"omitempty,oneof=csv tsv parquet xlsx"`
	Sheet       string   `koanf:"sheet"`
	Channels    []string `koanf:"channels" validate:"min=1,dive,required"`
	EventColumn string   `koanf:"event_column" validate:"required"`
	SampleRate  float64  `koanf:"sample_rate" validate:"gt=0"`
	Montage     string   `koanf:"montage"`
	EventCodes  []int    `koanf:"event_codes" validate:"min=1"`
	RowOffset   int      `koanf:"row_offset" validate:"gte=0"`
	// Anchor is "row" (the shifted row is the sample index) or "next"
	// (first retained sample after the marker).
	Anchor string `koanf:"anchor" validate:"oneof=row next"`
}

// FilterConfig configures band and notch filtering. Zero cut-offs omit the
// corresponding edge.
type FilterConfig struct {
	LowHz     float64   `koanf:"low_hz" validate:"gte=0"`
	HighHz    float64   `koanf:"high_hz" validate:"gte=0"`
	Method    string    `koanf:"method" validate:"oneof=iir fir"`
	Order     int       `koanf:"order" validate:"gte=1,lte=16"`
	NotchHz   []float64 `koanf:"notch_hz" validate:"dive,gt=0"`
	NotchQ    float64   `koanf:"notch_q" validate:"gt=0"`
	FIRWindow string    `koanf:"fir_window" validate:"oneof=rectangular hann hamming blackman"`
	Phase     string    `koanf:"phase" validate:"oneof=zero causal"`
}

// EpochsConfig configures segmentation.
type EpochsConfig struct {
	TMin    float64        `koanf:"tmin"`
	TMax    float64        `koanf:"tmax"`
	EventID map[string]int `koanf:"event_id" validate:"min=1"`
	// Baseline is an optional [from, to] interval in seconds.
	Baseline         []float64 `koanf:"baseline" validate:"omitempty,len=2"`
	RejectPeakToPeak float64   `koanf:"reject_ptp" validate:"gte=0"`
	OnOutOfBounds    string    `koanf:"on_out_of_bounds" validate:"oneof=drop error"`
}

// MeasureConfig selects the window amplitude measures are taken in.
type MeasureConfig struct {
	From float64 `koanf:"from"`
	To   float64 `koanf:"to"`
}

// PlotConfig configures figure output.
type PlotConfig struct {
	Enabled bool   `koanf:"enabled"`
	OutDir  string `koanf:"out_dir" validate:"required_if=Enabled true"`
	Format  string `koanf:"format" validate:"oneof=png svg pdf"`
	// Width and Height are in inches.
	Width  float64 `koanf:"width" validate:"gt=0"`
	Height float64 `koanf:"height" validate:"gt=0"`
	// Band is the shaded range in seconds; empty disables it.
	Band []float64 `koanf:"band" validate:"omitempty,len=2"`
	// Target and NonTarget name the conditions compared per channel.
	Target    string `koanf:"target" validate:"required"`
	NonTarget string `koanf:"non_target" validate:"required"`
}

// ExportConfig configures optional exports; empty paths disable them.
type ExportConfig struct {
	EDFPath string `koanf:"edf_path"`
}

// MetricsConfig configures the Prometheus textfile written after a run.
type MetricsConfig struct {
	TextfilePath string `koanf:"textfile_path"`
}

// New returns a Config holding the defaults: the four-channel oddball
// layout at 250 Hz, a 1-40 Hz zero-phase Butterworth band-pass of order 5,
// -200..800 ms epochs and PNG figures with the 250-350 ms band shaded.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "json",
		Input: InputConfig{
			Channels:    []string{"o1", "o2", "t3", "t4"},
			EventColumn: "event_id",
			SampleRate:  250,
			Montage:     "standard_1020",
			EventCodes:  []int{1, 2, 10000, 10001},
			RowOffset:   1,
			Anchor:      "row",
		},
		Filter: FilterConfig{
			LowHz:     1,
			HighHz:    40,
			Method:    "iir",
			Order:     5,
			NotchQ:    30,
			FIRWindow: "hamming",
			Phase:     "zero",
		},
		Epochs: EpochsConfig{
			TMin:          -0.2,
			TMax:          0.8,
			EventID:       map[string]int{"Standard": 1, "Odd": 2},
			OnOutOfBounds: "drop",
		},
		Measure: MeasureConfig{From: 0.25, To: 0.5},
		Plot: PlotConfig{
			Enabled:   true,
			OutDir:    "plots",
			Format:    "png",
			Width:     10,
			Height:    8,
			Band:      []float64{0.25, 0.35},
			Target:    "Odd",
			NonTarget: "Standard",
		},
	}
}
