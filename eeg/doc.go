// Package eeg defines the containers shared by the analysis stages: a
// continuous multi-channel recording ([Raw]) and its stimulus markers
// ([Events]).
//
// Containers are values produced by one stage and consumed by the next.
// Stages never modify their input; they return a [Raw.Copy] instead.
package eeg
