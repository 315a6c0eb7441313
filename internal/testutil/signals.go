// Package testutil holds signal generators and tolerance helpers shared by
// the DSP and EEG package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Sum returns the element-wise sum of equally long signals.
func Sum(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}
	out := make([]float64, len(signals[0]))
	for _, s := range signals {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}

// ToneAmplitude estimates the amplitude of the freqHz component of x by
// correlating against a quadrature pair. Exact for a whole number of cycles.
func ToneAmplitude(x []float64, freqHz, sampleRate float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var re, im float64
	step := 2 * math.Pi * freqHz / sampleRate
	for i, v := range x {
		re += v * math.Cos(step*float64(i))
		im += v * math.Sin(step*float64(i))
	}
	return 2 * math.Hypot(re, im) / float64(len(x))
}
