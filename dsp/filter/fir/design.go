package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-erp/dsp/window"
)

// ErrInvalidParams is returned for band edges or lengths a filter cannot
// be designed from.
var ErrInvalidParams = errors.New("fir: invalid parameters")

// minTransition is the narrowest automatic transition band in Hz.
const minTransition = 2.0

// TransitionBands returns the automatic transition widths for the low and
// high band edges: a quarter of the edge frequency, at least 2 Hz, clipped
// so the band never extends below 0 Hz or beyond Nyquist. A non-positive
// edge yields a zero width.
func TransitionBands(low, high, sampleRate float64) (lowTrans, highTrans float64) {
	if low > 0 {
		lowTrans = math.Min(math.Max(0.25*low, minTransition), low)
	}
	if high > 0 {
		highTrans = math.Min(math.Max(0.25*high, minTransition), sampleRate/2-high)
	}
	return lowTrans, highTrans
}

// LengthFactor returns the main-lobe width factor of a window type: the
// number of transition bandwidths, in samples per Hz, the window needs.
func LengthFactor(t window.Type) float64 {
	switch t {
	case window.TypeHann:
		return 3.1
	case window.TypeBlackman:
		return 5.0
	default:
		return 3.3
	}
}

// AutoLength returns the odd tap count for the narrowest transition band.
func AutoLength(transition, sampleRate float64, t window.Type) int {
	if transition <= 0 || sampleRate <= 0 {
		return 0
	}
	n := int(math.Ceil(LengthFactor(t) * sampleRate / transition))
	if n%2 == 0 {
		n++
	}
	return n
}

// Design is a designed FIR filter and the parameters that produced it.
type Design struct {
	Taps       []float64
	LowCutoff  float64 // -6 dB point of the high-pass edge, 0 if none
	HighCutoff float64 // -6 dB point of the low-pass edge, 0 if none
	LowTrans   float64
	HighTrans  float64
	Window     window.Type
	SampleRate float64
}

// Delay returns the group delay in samples.
func (d *Design) Delay() int {
	return (len(d.Taps) - 1) / 2
}

// DesignBand designs a band filter with automatic transition bands and
// length. low <= 0 makes it a low-pass, high <= 0 a high-pass. The
// cut-offs sit at the centre of each transition band.
func DesignBand(low, high, sampleRate float64, t window.Type) (*Design, error) {
	if sampleRate <= 0 || (low <= 0 && high <= 0) {
		return nil, fmt.Errorf("%w: need a positive band edge", ErrInvalidParams)
	}
	nyq := sampleRate / 2
	if low >= nyq || high >= nyq {
		return nil, fmt.Errorf("%w: band edges must be below Nyquist (%g Hz)", ErrInvalidParams, nyq)
	}
	if low > 0 && high > 0 && low >= high {
		return nil, fmt.Errorf("%w: low edge %g >= high edge %g", ErrInvalidParams, low, high)
	}

	lowTrans, highTrans := TransitionBands(low, high, sampleRate)

	trans := math.Inf(1)
	if low > 0 {
		trans = lowTrans
	}
	if high > 0 {
		trans = math.Min(trans, highTrans)
	}

	d := &Design{
		LowTrans:   lowTrans,
		HighTrans:  highTrans,
		Window:     t,
		SampleRate: sampleRate,
	}
	if low > 0 {
		d.LowCutoff = low - lowTrans/2
	}
	if high > 0 {
		d.HighCutoff = high + highTrans/2
	}

	taps, err := BandPass(d.LowCutoff, d.HighCutoff, sampleRate, AutoLength(trans, sampleRate, t), t)
	if err != nil {
		return nil, err
	}
	d.Taps = taps

	return d, nil
}

// BandPass returns numTaps windowed-sinc coefficients passing
// [lowCutoff, highCutoff] Hz. lowCutoff <= 0 means the band starts at DC,
// highCutoff <= 0 that it reaches Nyquist. numTaps must be odd so the
// high-pass case has a centre tap.
//
// The taps are scaled for unity gain at DC (low-pass), Nyquist (high-pass)
// or the band centre (band-pass).
func BandPass(lowCutoff, highCutoff, sampleRate float64, numTaps int, t window.Type) ([]float64, error) {
	if numTaps <= 0 || numTaps%2 == 0 {
		return nil, fmt.Errorf("%w: tap count must be odd and positive, got %d", ErrInvalidParams, numTaps)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", ErrInvalidParams)
	}

	left := math.Max(lowCutoff, 0) / sampleRate
	right := 0.5
	if highCutoff > 0 {
		right = highCutoff / sampleRate
	}
	if left >= right || right > 0.5 {
		return nil, fmt.Errorf("%w: empty pass band [%g, %g] Hz", ErrInvalidParams, lowCutoff, highCutoff)
	}

	centre := 0.5 * float64(numTaps-1)
	taps := make([]float64, numTaps)
	for i := range taps {
		m := float64(i) - centre
		taps[i] = 2*right*sinc(2*right*m) - 2*left*sinc(2*left*m)
	}

	window.Apply(t, taps)

	var scaleFreq float64
	switch {
	case left == 0:
		scaleFreq = 0
	case right == 0.5:
		scaleFreq = 0.5
	default:
		scaleFreq = (left + right) / 2
	}

	var gain float64
	for i, h := range taps {
		gain += h * math.Cos(2*math.Pi*scaleFreq*(float64(i)-centre))
	}
	if gain == 0 {
		return nil, fmt.Errorf("%w: designed zero-gain filter", ErrInvalidParams)
	}
	for i := range taps {
		taps[i] /= gain
	}

	return taps, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
