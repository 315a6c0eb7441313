package conv

import "errors"

var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
)

// Direct returns the full linear convolution of a and b, len(a)+len(b)-1
// samples, computed in the time domain.
func Direct(a, b []float64) ([]float64, error) {
	switch {
	case len(a) == 0:
		return nil, ErrEmptyInput
	case len(b) == 0:
		return nil, ErrEmptyKernel
	}

	out := make([]float64, len(a)+len(b)-1)
	for j, h := range b {
		if h == 0 {
			continue
		}
		dst := out[j : j+len(a)]
		for i, x := range a {
			dst[i] += x * h
		}
	}
	return out, nil
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
