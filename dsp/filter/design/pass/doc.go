// Package pass designs Butterworth lowpass, highpass and bandpass cascades
// as slices of biquad sections.
package pass
