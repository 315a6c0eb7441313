package pass

import (
	"math"

	"github.com/cwbudde/algo-erp/dsp/filter/biquad"
	"github.com/cwbudde/algo-erp/dsp/filter/design"
)

// ButterworthLP designs a lowpass Butterworth cascade of the given order.
// Odd orders end with a first-order section (B2 = A2 = 0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return cascade(freq, order, sampleRate, design.Lowpass, func(k float64) biquad.Coefficients {
		return biquad.Coefficients{B0: k / (1 + k), B1: k / (1 + k), A1: (k - 1) / (1 + k)}
	})
}

// ButterworthHP designs a highpass Butterworth cascade of the given order.
// Odd orders end with a first-order section (B2 = A2 = 0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return cascade(freq, order, sampleRate, design.Highpass, func(k float64) biquad.Coefficients {
		return biquad.Coefficients{B0: 1 / (1 + k), B1: -1 / (1 + k), A1: (k - 1) / (1 + k)}
	})
}

// ButterworthBP designs a bandpass as a highpass cascade at low followed
// by a lowpass cascade at high, each of the given order. A non-positive
// edge omits that half, so ButterworthBP(0, 30, ...) is a plain lowpass.
func ButterworthBP(low, high float64, order int, sampleRate float64) []biquad.Coefficients {
	var sections []biquad.Coefficients
	if low > 0 {
		sections = append(sections, ButterworthHP(low, order, sampleRate)...)
	}
	if high > 0 {
		sections = append(sections, ButterworthLP(high, order, sampleRate)...)
	}
	return sections
}

// cascade builds order/2 second-order sections, highest Q last, plus a
// first-order section for odd orders. first receives the bilinear
// prewarped tan(pi*freq/fs).
func cascade(freq float64, order int, sampleRate float64,
	second func(freq, q, sampleRate float64) biquad.Coefficients,
	first func(k float64) biquad.Coefficients,
) []biquad.Coefficients {
	if order <= 0 || !design.ValidFrequency(freq, sampleRate) {
		return nil
	}
	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, second(freq, sectionQ(order, i), sampleRate))
	}
	if order%2 == 1 {
		sections = append(sections, first(math.Tan(math.Pi*freq/sampleRate)))
	}
	return sections
}

// sectionQ is the quality factor of the pole pair i of an order-n
// Butterworth prototype.
func sectionQ(order, i int) float64 {
	return 1 / (2 * math.Sin(math.Pi*float64(2*i+1)/float64(2*order)))
}
