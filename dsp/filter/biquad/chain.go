package biquad

// Chain is an ordered cascade of biquad sections processed in series.
// It is used for higher-order filters (Butterworth, notch banks)
// where each second-order section feeds into the next.
type Chain struct {
	sections []Section
	gain     float64
}

// chainConfig holds options for NewChain.
type chainConfig struct {
	gain float64
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets an overall gain applied to the input before cascading.
// Default is 1.0 (unity gain).
func WithGain(g float64) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Chain{
		sections: make([]Section, len(coeffs)),
		gain:     cfg.gain,
	}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
// If gain != 1, the input is scaled before the first section.
func (c *Chain) ProcessSample(x float64) float64 {
	x *= c.gain
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i, x := range buf {
			buf[i] = x * c.gain
		}
	}

	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order returns the nominal filter order (2 per biquad section).
func (c *Chain) Order() int {
	return 2 * len(c.sections)
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Gain returns the current input gain applied before cascading.
func (c *Chain) Gain() float64 { return c.gain }

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice length must match NumSections.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}

// SetSteadyState primes every section with the state it would hold after
// an infinitely long constant input x. Each section sees the steady-state
// output of the one before it.
func (c *Chain) SetSteadyState(x float64) {
	level := x * c.gain
	for i := range c.sections {
		level = c.sections[i].SetSteadyState(level)
	}
}

// PadLen returns the number of samples FiltFilt mirrors onto each end of
// the input before filtering.
func (c *Chain) PadLen() int {
	return 3 * (2*len(c.sections) + 1)
}

// FiltFilt applies the cascade forward and then backward over src and
// returns the result in a new slice. src is not modified.
//
// Both ends are extended by odd reflection (PadLen samples, capped at
// len(src)-1) and each pass starts from the steady state for its first
// sample. The chain state is reset afterwards.
func (c *Chain) FiltFilt(src []float64) []float64 {
	n := len(src)
	if n == 0 {
		return []float64{}
	}

	pad := c.PadLen()
	if pad > n-1 {
		pad = n - 1
	}

	ext := oddExtend(src, pad)

	c.SetSteadyState(ext[0])
	c.ProcessBlock(ext)

	reverse(ext)
	c.SetSteadyState(ext[0])
	c.ProcessBlock(ext)
	reverse(ext)

	c.Reset()

	out := make([]float64, n)
	copy(out, ext[pad:pad+n])

	return out
}

// oddExtend returns x with pad samples reflected about each end point:
// 2*x[0]-x[pad..1] before and 2*x[n-1]-x[n-2..n-1-pad] after.
func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)

	first, last := x[0], x[n-1]
	for i := range pad {
		out[i] = 2*first - x[pad-i]
		out[pad+n+i] = 2*last - x[n-2-i]
	}

	copy(out[pad:], x)

	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
