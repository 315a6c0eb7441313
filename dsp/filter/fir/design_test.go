package fir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-erp/dsp/window"
)

func TestTransitionBands(t *testing.T) {
	tests := []struct {
		low, high, fs  float64
		wantLo, wantHi float64
	}{
		{1, 40, 250, 1, 10},
		{0.5, 30, 250, 0.5, 7.5},
		{20, 124, 250, 5, 1},
		{0, 40, 250, 0, 10},
		{8, 0, 250, 2, 0},
	}
	for _, tc := range tests {
		lo, hi := TransitionBands(tc.low, tc.high, tc.fs)
		if !almostEqual(lo, tc.wantLo, 1e-12) || !almostEqual(hi, tc.wantHi, 1e-12) {
			t.Errorf("TransitionBands(%g, %g): got (%g, %g), want (%g, %g)",
				tc.low, tc.high, lo, hi, tc.wantLo, tc.wantHi)
		}
	}
}

func TestAutoLength(t *testing.T) {
	// ceil(3.3 * 250 / 1) = 825, already odd.
	if got := AutoLength(1, 250, window.TypeHamming); got != 825 {
		t.Errorf("AutoLength hamming: got %d, want 825", got)
	}
	// ceil(3.1 * 250 / 2) = 388 -> 389.
	if got := AutoLength(2, 250, window.TypeHann); got != 389 {
		t.Errorf("AutoLength hann: got %d, want 389", got)
	}
	if got := AutoLength(0, 250, window.TypeHamming); got != 0 {
		t.Errorf("AutoLength zero transition: got %d, want 0", got)
	}
}

func TestDesignBandResponse(t *testing.T) {
	d, err := DesignBand(1, 40, 250, window.TypeHamming)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Taps) != 825 {
		t.Fatalf("taps: got %d, want 825", len(d.Taps))
	}
	if d.Delay() != 412 {
		t.Errorf("Delay: got %d, want 412", d.Delay())
	}
	if !almostEqual(d.LowCutoff, 0.5, 1e-12) || !almostEqual(d.HighCutoff, 45, 1e-12) {
		t.Errorf("cutoffs: got (%g, %g), want (0.5, 45)", d.LowCutoff, d.HighCutoff)
	}

	for i := range d.Taps {
		j := len(d.Taps) - 1 - i
		if !almostEqual(d.Taps[i], d.Taps[j], 1e-15) {
			t.Fatalf("taps not symmetric at %d", i)
		}
	}

	passband := []float64{5, 10, 20, 30}
	for _, f := range passband {
		if db := MagnitudeDB(d.Taps, f, 250); math.Abs(db) > 0.1 {
			t.Errorf("passband %g Hz: got %.3f dB", f, db)
		}
	}
	stopband := []float64{60, 80, 100}
	for _, f := range stopband {
		if db := MagnitudeDB(d.Taps, f, 250); db > -40 {
			t.Errorf("stopband %g Hz: got %.3f dB, want < -40", f, db)
		}
	}
	if db := MagnitudeDB(d.Taps, 0, 250); db > -40 {
		t.Errorf("DC: got %.3f dB, want < -40", db)
	}
}

func TestDesignBandLowpassUnityDC(t *testing.T) {
	d, err := DesignBand(0, 30, 250, window.TypeHamming)
	if err != nil {
		t.Fatal(err)
	}
	if db := MagnitudeDB(d.Taps, 0, 250); !almostEqual(db, 0, 1e-9) {
		t.Errorf("DC: got %v dB, want 0", db)
	}
}

func TestDesignBandInvalid(t *testing.T) {
	cases := []struct{ low, high, fs float64 }{
		{0, 0, 250},
		{40, 1, 250},
		{1, 125, 250},
		{1, 40, 0},
	}
	for _, c := range cases {
		if _, err := DesignBand(c.low, c.high, c.fs, window.TypeHamming); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("DesignBand(%g, %g, %g): got %v, want ErrInvalidParams", c.low, c.high, c.fs, err)
		}
	}
}

func TestBandPassEvenTaps(t *testing.T) {
	if _, err := BandPass(1, 40, 250, 100, window.TypeHamming); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("got %v, want ErrInvalidParams", err)
	}
}
