package testutil

import (
	"math"
	"testing"
)

func TestFirstMismatch(t *testing.T) {
	cases := []struct {
		a, b []float64
		eps  float64
		want int
	}{
		{[]float64{1, 2, 3}, []float64{1, 2.05, 3}, 0.1, -1},
		{[]float64{1, 2, 3}, []float64{1, 2.2, 3}, 0.1, 1},
		{[]float64{1, math.NaN()}, []float64{1, 0}, 1, 1},
		{nil, nil, 0, -1},
	}
	for _, c := range cases {
		if got := firstMismatch(c.a, c.b, c.eps); got != c.want {
			t.Errorf("firstMismatch(%v, %v, %g) = %d, want %d", c.a, c.b, c.eps, got, c.want)
		}
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1, 2 + 1e-12}, 1e-9)
	RequireFinite(t, DeterministicNoise(3, 1, 32))
}
