package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual stops the test at the first sample where got and
// want differ by more than eps, or when their lengths differ.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length: got %d samples, want %d", len(got), len(want))
	}
	if i := firstMismatch(got, want, eps); i >= 0 {
		t.Fatalf("sample %d: got %v, want %v (|diff| %g > %g)", i, got[i], want[i], math.Abs(got[i]-want[i]), eps)
	}
}

// RequireFinite stops the test at the first NaN or Inf sample.
func RequireFinite(t testing.TB, x []float64) {
	t.Helper()
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", i, v)
		}
	}
}

// firstMismatch returns the first index where |a-b| > eps, or -1.
func firstMismatch(a, b []float64, eps float64) int {
	for i := range a {
		if !(math.Abs(a[i]-b[i]) <= eps) {
			return i
		}
	}
	return -1
}
