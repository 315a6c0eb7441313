// Package time computes time-domain summary statistics of sampled signals:
// amplitude extrema and their positions, peak-to-peak range, RMS and the
// first four moments.
package time

import (
	"errors"
	"math"
)

// ErrInvalidRange is returned when a sample range is empty or out of bounds.
var ErrInvalidRange = errors.New("time: invalid sample range")

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int
	Mean          float64
	RMS           float64
	Max           float64
	MaxPos        int
	Min           float64
	MinPos        int
	PeakToPeak    float64 // max - min
	Variance      float64
	Skewness      float64
	Kurtosis      float64 // excess
	ZeroCrossings int
}

// Std returns the population standard deviation.
func (s Stats) Std() float64 {
	return math.Sqrt(s.Variance)
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for numerical stability on higher-order moments.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	var mean, m2, m3, m4 float64

	var (
		sumSq         float64
		maxVal        = signal[0]
		maxPos        int
		minVal        = signal[0]
		minPos        int
		zeroCrossings int
	)

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	variance := m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Length:        n,
		Mean:          mean,
		RMS:           math.Sqrt(sumSq / nf),
		Max:           maxVal,
		MaxPos:        maxPos,
		Min:           minVal,
		MinPos:        minPos,
		PeakToPeak:    maxVal - minVal,
		Variance:      variance,
		Skewness:      skewness,
		Kurtosis:      kurtosis,
		ZeroCrossings: zeroCrossings,
	}
}

// Mean returns the arithmetic mean of the signal, 0 if it is empty.
func Mean(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	// Kahan summation.
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// PeakToPeak returns max - min of the signal.
func PeakToPeak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	lo, hi := signal[0], signal[0]
	for _, x := range signal[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}

	return hi - lo
}

// Polarity selects which extremum [PeakIn] searches for.
type Polarity int

const (
	// Positive finds the largest value.
	Positive Polarity = iota
	// Negative finds the smallest value.
	Negative
	// Absolute finds the value with the largest magnitude.
	Absolute
)

// PeakIn returns the extremum of signal[from:to] and its index in signal.
func PeakIn(signal []float64, from, to int, pol Polarity) (value float64, pos int, err error) {
	if from < 0 || to > len(signal) || from >= to {
		return 0, 0, ErrInvalidRange
	}

	pos = from
	for i := from + 1; i < to; i++ {
		x, best := signal[i], signal[pos]
		switch pol {
		case Negative:
			if x < best {
				pos = i
			}
		case Absolute:
			if math.Abs(x) > math.Abs(best) {
				pos = i
			}
		default:
			if x > best {
				pos = i
			}
		}
	}

	return signal[pos], pos, nil
}

// MeanIn returns the mean of signal[from:to].
func MeanIn(signal []float64, from, to int) (float64, error) {
	if from < 0 || to > len(signal) || from >= to {
		return 0, ErrInvalidRange
	}

	return Mean(signal[from:to]), nil
}
