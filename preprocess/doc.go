// Package preprocess band-limits EEG recordings.
//
// [Filter] applies an optional band filter (Butterworth IIR or
// windowed-sinc FIR) followed by optional notch filters to every channel
// of an [eeg.Raw] and returns a new recording. The input is never
// modified, and the same parameters always produce the same output.
package preprocess
