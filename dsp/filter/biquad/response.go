package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates H(z) of the section on the unit circle at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate) // z^-1
	num := complex(c.B0, 0) + z1*(complex(c.B1, 0)+z1*complex(c.B2, 0))
	den := 1 + z1*(complex(c.A1, 0)+z1*complex(c.A2, 0))
	return num / den
}

// MagnitudeDB returns the section gain at freqHz in dB.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return toDB(c.Response(freqHz, sampleRate))
}

// Response is the product of the section responses and the input gain.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(c.gain, 0)
	for _, s := range c.sections {
		h *= s.Response(freqHz, sampleRate)
	}
	return h
}

// MagnitudeDB returns the single-pass cascade gain at freqHz in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return toDB(c.Response(freqHz, sampleRate))
}

// ZeroPhaseMagnitudeDB returns the gain FiltFilt applies at freqHz: the
// squared single-pass magnitude, in dB.
func (c *Chain) ZeroPhaseMagnitudeDB(freqHz, sampleRate float64) float64 {
	return 2 * c.MagnitudeDB(freqHz, sampleRate)
}

// ImpulseResponse returns the first n samples of the cascade's response to
// a unit impulse, leaving the chain state untouched.
func (c *Chain) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}
	saved := c.State()
	defer c.SetState(saved)

	c.Reset()
	ir := make([]float64, n)
	ir[0] = 1
	c.ProcessBlock(ir)
	return ir
}

func toDB(h complex128) float64 {
	return 20 * math.Log10(cmplx.Abs(h))
}
