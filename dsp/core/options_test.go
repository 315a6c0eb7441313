package core

import (
	"log/slog"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cfg := ApplyProcessorOptions(WithSampleRate(500), WithBlockSize(2048), WithLogger(logger))
	if cfg.SampleRate != 500 {
		t.Fatalf("sample rate = %v, want 500", cfg.SampleRate)
	}
	if cfg.BlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", cfg.BlockSize)
	}
	if cfg.Logger != logger {
		t.Fatal("logger not applied")
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithBlockSize(-1), WithLogger(nil), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}
