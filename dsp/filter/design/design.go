package design

import (
	"math"

	"github.com/cwbudde/algo-erp/dsp/filter/biquad"
)

// ButterworthQ is the quality factor of a second-order Butterworth section.
const ButterworthQ = 1 / math.Sqrt2

// rbj holds the intermediate terms shared by the RBJ cookbook sections.
// All of them have the denominator 1+alpha, -2cos(w0), 1-alpha.
type rbj struct {
	cw, alpha float64
}

func newRBJ(freq, q, sampleRate float64) (rbj, bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return rbj{}, false
	}
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = ButterworthQ
	}
	return rbj{cw: math.Cos(w0), alpha: math.Sin(w0) / (2 * q)}, true
}

// section divides the numerator and the shared denominator by a0.
func (r rbj) section(b0, b1, b2 float64) biquad.Coefficients {
	a0 := 1 + r.alpha
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: -2 * r.cw / a0,
		A2: (1 - r.alpha) / a0,
	}
}

// Lowpass designs a second-order lowpass at freq Hz. Invalid parameters
// yield zero coefficients.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	r, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	b := (1 - r.cw) / 2
	return r.section(b, 2*b, b)
}

// Highpass designs a second-order highpass at freq Hz.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	r, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	b := (1 + r.cw) / 2
	return r.section(b, -2*b, b)
}

// Notch designs a notch at freq Hz, typically mains interference. The
// -3 dB width of the stop band is freq/q.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	r, ok := newRBJ(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return r.section(1, -2*r.cw, 1)
}

// ValidFrequency reports whether freq lies strictly between 0 and the
// Nyquist frequency of sampleRate.
func ValidFrequency(freq, sampleRate float64) bool {
	_, ok := normalizedW0(freq, sampleRate)
	return ok
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	switch {
	case !(sampleRate > 0) || math.IsInf(sampleRate, 0):
		return 0, false
	case !(freq > 0) || freq >= sampleRate/2 || math.IsInf(freq, 0):
		return 0, false
	}
	return 2 * math.Pi * freq / sampleRate, true
}
