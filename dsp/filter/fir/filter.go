package fir

import (
	"math"
	"math/cmplx"
)

// Filter is a causal FIR filter. Its delay line is stored twice so that
// the taps always meet a contiguous window of past input.
type Filter struct {
	taps []float64
	line []float64 // 2*len(taps); line[pos:pos+len(taps)] holds x[n], x[n-1], ...
	pos  int
}

// New returns a filter with a copy of taps and a zero delay line.
func New(taps []float64) *Filter {
	return &Filter{
		taps: append([]float64(nil), taps...),
		line: make([]float64, 2*len(taps)),
	}
}

// ProcessSample pushes x and returns y[n] = sum_k h[k] x[n-k].
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.taps)
	if n == 0 {
		return 0
	}

	if f.pos == 0 {
		f.pos = n
	}
	f.pos--
	f.line[f.pos] = x
	f.line[f.pos+n] = x

	var y float64
	for k, v := range f.line[f.pos : f.pos+n] {
		y += f.taps[k] * v
	}
	return y
}

// ProcessBlockTo filters src into dst, which must be at least as long.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset zeroes the delay line.
func (f *Filter) Reset() {
	clear(f.line)
	f.pos = 0
}

// Order returns len(taps) - 1.
func (f *Filter) Order() int { return len(f.taps) - 1 }

// Coefficients returns a copy of the taps.
func (f *Filter) Coefficients() []float64 { return append([]float64(nil), f.taps...) }

// Response evaluates the transfer function of taps at freqHz.
func Response(taps []float64, freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)
	var h complex128
	for k := len(taps) - 1; k >= 0; k-- { // Horner in z^-1
		h = h*z1 + complex(taps[k], 0)
	}
	return h
}

// MagnitudeDB returns the gain of taps at freqHz in dB.
func MagnitudeDB(taps []float64, freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(Response(taps, freqHz, sampleRate)))
}
