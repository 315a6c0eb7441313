// Package core holds processing settings and numeric helpers shared by the
// DSP and EEG stages.
package core

import "log/slog"

// ProcessorConfig defines common processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Logger     *slog.Logger
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultSampleRate is the acquisition rate of the supported headsets, in Hz.
const DefaultSampleRate = 250

// DefaultProcessorConfig returns the defaults for offline EEG processing.
// A zero BlockSize lets FFT convolution size blocks from the kernel.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		Logger:     slog.Default(),
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the FFT convolution block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithLogger sets the logger stages report to.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
