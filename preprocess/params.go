package preprocess

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-erp/dsp/window"
)

// ErrInvalidParams is returned for filter parameters that cannot be
// realised at the recording's sample rate.
var ErrInvalidParams = errors.New("preprocess: invalid filter parameters")

// Method selects the filter family.
type Method string

const (
	// MethodIIR is a Butterworth biquad cascade.
	MethodIIR Method = "iir"
	// MethodFIR is a windowed-sinc linear-phase filter.
	MethodFIR Method = "fir"
)

// Phase selects how filters are applied.
type Phase string

const (
	// PhaseZero runs IIR filters forward and backward and removes the FIR
	// group delay, so waveform latencies are preserved.
	PhaseZero Phase = "zero"
	// PhaseCausal runs a single forward pass.
	PhaseCausal Phase = "causal"
)

// Defaults.
const (
	DefaultOrder  = 5
	DefaultNotchQ = 30.0
)

// FilterParams configures [Filter]. A zero LowHz omits the high-pass edge
// and a zero HighHz omits the low-pass edge.
type FilterParams struct {
	LowHz  float64
	HighHz float64
	Method Method
	// Order is the Butterworth order of each edge (IIR only).
	Order int
	// NotchHz lists line-noise frequencies to remove, harmonics included.
	NotchHz []float64
	NotchQ  float64
	// FIRWindow names the taper of the FIR design (FIR only).
	FIRWindow string
	Phase     Phase
}

// DefaultFilterParams returns a 1-40 Hz zero-phase Butterworth band-pass
// of order 5 without notch.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		LowHz:     1,
		HighHz:    40,
		Method:    MethodIIR,
		Order:     DefaultOrder,
		NotchQ:    DefaultNotchQ,
		FIRWindow: window.TypeHamming.String(),
		Phase:     PhaseZero,
	}
}

// withDefaults fills unset fields.
func (p FilterParams) withDefaults() FilterParams {
	if p.Method == "" {
		p.Method = MethodIIR
	}
	if p.Order == 0 {
		p.Order = DefaultOrder
	}
	if p.NotchQ == 0 {
		p.NotchQ = DefaultNotchQ
	}
	if p.FIRWindow == "" {
		p.FIRWindow = window.TypeHamming.String()
	}
	if p.Phase == "" {
		p.Phase = PhaseZero
	}
	p.Method = Method(strings.ToLower(string(p.Method)))
	p.Phase = Phase(strings.ToLower(string(p.Phase)))
	return p
}

// Validate checks p against a sample rate.
func (p FilterParams) Validate(sampleRate float64) error {
	p = p.withDefaults()
	nyq := sampleRate / 2

	switch {
	case sampleRate <= 0:
		return fmt.Errorf("%w: sample rate %g", ErrInvalidParams, sampleRate)
	case math.IsNaN(p.LowHz) || math.IsNaN(p.HighHz):
		return fmt.Errorf("%w: NaN cut-off", ErrInvalidParams)
	case p.LowHz < 0 || p.HighHz < 0:
		return fmt.Errorf("%w: negative cut-off (low %g, high %g)", ErrInvalidParams, p.LowHz, p.HighHz)
	case p.LowHz >= nyq || p.HighHz >= nyq:
		return fmt.Errorf("%w: cut-offs must be below Nyquist %g Hz (low %g, high %g)",
			ErrInvalidParams, nyq, p.LowHz, p.HighHz)
	case p.LowHz > 0 && p.HighHz > 0 && p.LowHz >= p.HighHz:
		return fmt.Errorf("%w: low cut-off %g >= high cut-off %g", ErrInvalidParams, p.LowHz, p.HighHz)
	case p.Order < 1:
		return fmt.Errorf("%w: order %d < 1", ErrInvalidParams, p.Order)
	case p.NotchQ <= 0:
		return fmt.Errorf("%w: notch Q %g", ErrInvalidParams, p.NotchQ)
	}

	switch p.Method {
	case MethodIIR, MethodFIR:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidParams, p.Method)
	}

	switch p.Phase {
	case PhaseZero, PhaseCausal:
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidParams, p.Phase)
	}

	if _, err := window.ParseType(p.FIRWindow); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	for _, f := range p.NotchHz {
		if f <= 0 || f >= nyq {
			return fmt.Errorf("%w: notch %g Hz outside (0, %g)", ErrInvalidParams, f, nyq)
		}
	}

	return nil
}
