// Package conv provides linear convolution for FIR filtering of whole
// recordings.
//
// [Direct] convolves in the time domain and suits short kernels.
// [OverlapAdd] transforms the kernel once and convolves block by block in
// the frequency domain, which pays off for the several hundred taps of an
// EEG band-pass applied to every channel:
//
//	oa, err := conv.NewOverlapAdd(taps, 0)
//	y, err := oa.Process(x)
package conv
