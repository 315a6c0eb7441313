// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order filters (Butterworth, notch banks).
//
// [Chain.FiltFilt] runs the cascade forward and backward over a finite
// recording, which cancels the phase response and doubles the magnitude
// response in dB. This is the usual way offline EEG is band limited.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
