// Package fir provides FIR filter design and runtime.
//
// [BandPass] designs a linear-phase windowed-sinc filter, sizing it from
// the transition bandwidth the way common EEG toolboxes do ([TransitionBands],
// [AutoLength]). A [Filter] applies the taps causally, sample by sample.
// [ApplyZeroPhase] applies them to a whole recording by FFT convolution and
// removes the group delay, so filtered features keep their latency.
package fir
