package preprocess

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-erp/eeg"
	"github.com/cwbudde/algo-erp/internal/testutil"
)

const fs = 250.0

// testRaw returns two channels of a 10 Hz tone riding on a DC offset with
// 60 Hz interference. The second channel adds 50 Hz line noise.
func testRaw(t *testing.T, n int) (*eeg.Raw, []float64) {
	t.Helper()
	tone := testutil.DeterministicSine(10, fs, 1, n)
	ch0 := testutil.Sum(tone, testutil.DC(3, n), testutil.DeterministicSine(60, fs, 0.5, n))
	ch1 := testutil.Sum(tone, testutil.DeterministicSine(50, fs, 1, n))

	raw, err := eeg.NewRaw(fs, []eeg.Channel{
		{Name: "O1", Kind: eeg.KindEEG},
		{Name: "O2", Kind: eeg.KindEEG},
	}, [][]float64{ch0, ch1})
	if err != nil {
		t.Fatal(err)
	}
	return raw, tone
}

func maxDeviation(a, b []float64, from, to int) float64 {
	var m float64
	for i := from; i < to; i++ {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

func TestFilterBandPass(t *testing.T) {
	for _, method := range []Method{MethodIIR, MethodFIR} {
		t.Run(string(method), func(t *testing.T) {
			raw, tone := testRaw(t, 2500)
			p := DefaultFilterParams()
			p.Method = method

			out, err := Filter(raw, p)
			if err != nil {
				t.Fatal(err)
			}
			testutil.RequireFinite(t, out.Data[0])

			y := out.Data[0]
			if d := maxDeviation(y, tone, 500, 2000); d > 0.05 {
				t.Errorf("passband tone distorted: max deviation %g", d)
			}
			if a := testutil.ToneAmplitude(y[500:2000], 60, fs); a > 0.02 {
				t.Errorf("60 Hz residual %g", a)
			}
		})
	}
}

func TestFilterCausalShiftsPhase(t *testing.T) {
	raw, tone := testRaw(t, 2500)
	p := DefaultFilterParams()
	p.Phase = PhaseCausal

	out, err := Filter(raw, p)
	if err != nil {
		t.Fatal(err)
	}
	if d := maxDeviation(out.Data[0], tone, 500, 2000); d < 0.1 {
		t.Errorf("causal filter left the tone unshifted (max deviation %g)", d)
	}
}

func TestFilterNotch(t *testing.T) {
	raw, _ := testRaw(t, 2500)
	p := FilterParams{NotchHz: []float64{50}}

	out, err := Filter(raw, p)
	if err != nil {
		t.Fatal(err)
	}
	y := out.Data[1][500:2000]
	if a := testutil.ToneAmplitude(y, 50, fs); a > 0.01 {
		t.Errorf("50 Hz residual %g", a)
	}
	if a := testutil.ToneAmplitude(y, 10, fs); math.Abs(a-1) > 0.01 {
		t.Errorf("10 Hz amplitude %g, want 1", a)
	}
}

func TestFilterNoStagesCopies(t *testing.T) {
	raw, _ := testRaw(t, 100)
	out, err := Filter(raw, FilterParams{})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Data[0], raw.Data[0], 0)
	out.Data[0][0] = 1e9
	if raw.Data[0][0] == 1e9 {
		t.Fatal("output shares memory with input")
	}
}

func TestFilterDeterministicAndPure(t *testing.T) {
	for _, method := range []Method{MethodIIR, MethodFIR} {
		raw, _ := testRaw(t, 1500)
		before := raw.Copy()
		p := DefaultFilterParams()
		p.Method = method
		p.NotchHz = []float64{50, 100}

		a, err := Filter(raw, p)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Filter(raw, p)
		if err != nil {
			t.Fatal(err)
		}

		for c := range raw.Data {
			for i := range raw.Data[c] {
				if raw.Data[c][i] != before.Data[c][i] {
					t.Fatalf("%s: input modified at [%d][%d]", method, c, i)
				}
				if a.Data[c][i] != b.Data[c][i] {
					t.Fatalf("%s: runs differ at [%d][%d]", method, c, i)
				}
			}
		}
	}
}

func TestFilterValidation(t *testing.T) {
	raw, _ := testRaw(t, 500)
	tests := []struct {
		name string
		p    FilterParams
	}{
		{"low above high", FilterParams{LowHz: 40, HighHz: 1}},
		{"high at nyquist", FilterParams{LowHz: 1, HighHz: 125}},
		{"negative", FilterParams{LowHz: -1}},
		{"bad order", FilterParams{LowHz: 1, HighHz: 40, Order: -2}},
		{"unknown method", FilterParams{LowHz: 1, Method: "kalman"}},
		{"unknown phase", FilterParams{LowHz: 1, Phase: "minimum"}},
		{"unknown window", FilterParams{LowHz: 1, Method: MethodFIR, FIRWindow: "kaiser"}},
		{"notch above nyquist", FilterParams{NotchHz: []float64{130}}},
		// 0.1 Hz edge needs ceil(3.3*250/0.1) taps, far longer than 500 samples.
		{"fir longer than signal", FilterParams{LowHz: 0.1, HighHz: 40, Method: MethodFIR}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Filter(raw, tc.p)
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("got %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestHighpassOnlyRemovesOffset(t *testing.T) {
	raw, _ := testRaw(t, 2500)
	out, err := Filter(raw, FilterParams{LowHz: 1})
	if err != nil {
		t.Fatal(err)
	}
	var mean float64
	for _, v := range out.Data[0][500:2000] {
		mean += v
	}
	mean /= 1500
	if math.Abs(mean) > 0.01 {
		t.Errorf("offset survived high-pass: mean %g", mean)
	}
}
