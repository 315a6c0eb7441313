package fir

import (
	"fmt"

	"github.com/cwbudde/algo-erp/dsp/conv"
)

// directTaps is the longest kernel convolved directly rather than by FFT.
const directTaps = 64

// ZeroPhase applies odd-length linear-phase taps to whole signals and
// compensates the (len(taps)-1)/2 sample group delay. The kernel spectrum
// is computed once and reused for every signal.
type ZeroPhase struct {
	taps []float64
	ola  *conv.OverlapAdd
}

// NewZeroPhase prepares taps for zero-phase application. blockSize sets
// the FFT convolution block; 0 picks one from the tap count.
func NewZeroPhase(taps []float64, blockSize int) (*ZeroPhase, error) {
	if len(taps) == 0 || len(taps)%2 == 0 {
		return nil, fmt.Errorf("%w: need an odd tap count, got %d", ErrInvalidParams, len(taps))
	}

	zp := &ZeroPhase{taps: append([]float64(nil), taps...)}
	if len(taps) > directTaps {
		ola, err := conv.NewOverlapAdd(zp.taps, blockSize)
		if err != nil {
			return nil, fmt.Errorf("fir: %w", err)
		}
		zp.ola = ola
	}

	return zp, nil
}

// Delay returns the compensated group delay in samples.
func (zp *ZeroPhase) Delay() int { return (len(zp.taps) - 1) / 2 }

// Apply filters src and returns a result of the same length. src is not
// modified.
//
// Both ends are padded by reflection (limited to the signal length, zeros
// beyond) so the filter does not see a step at the edges.
func (zp *ZeroPhase) Apply(src []float64) ([]float64, error) {
	n := len(src)
	if n == 0 {
		return []float64{}, nil
	}

	pad := len(zp.taps) - 1
	ext := reflectLimited(src, pad)

	var (
		full []float64
		err  error
	)
	if zp.ola != nil {
		full, err = zp.ola.Process(ext)
	} else {
		full, err = conv.Direct(ext, zp.taps)
	}
	if err != nil {
		return nil, fmt.Errorf("fir: convolve: %w", err)
	}

	start := pad + pad/2
	out := make([]float64, n)
	copy(out, full[start:start+n])

	return out, nil
}

// ApplyZeroPhase is a one-shot [ZeroPhase.Apply].
func ApplyZeroPhase(taps, src []float64) ([]float64, error) {
	zp, err := NewZeroPhase(taps, 0)
	if err != nil {
		return nil, err
	}
	return zp.Apply(src)
}

// reflectLimited returns x with pad samples mirrored (excluding the edge
// sample) onto each end. Mirror positions beyond the signal are zero.
func reflectLimited(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)
	copy(out[pad:], x)

	for i := 1; i <= pad && i < n; i++ {
		out[pad-i] = x[i]
		out[pad+n-1+i] = x[n-1-i]
	}

	return out
}
