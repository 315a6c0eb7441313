// Package design computes biquad coefficients for the IIR stages of EEG
// preprocessing: RBJ lowpass and highpass sections, which the pass
// sub-package cascades into Butterworth band edges, and the line-noise
// notch.
package design
