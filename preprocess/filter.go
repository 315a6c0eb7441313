package preprocess

import (
	"fmt"

	"github.com/cwbudde/algo-erp/dsp/core"
	"github.com/cwbudde/algo-erp/dsp/filter/biquad"
	"github.com/cwbudde/algo-erp/dsp/filter/design"
	"github.com/cwbudde/algo-erp/dsp/filter/design/pass"
	"github.com/cwbudde/algo-erp/dsp/filter/fir"
	"github.com/cwbudde/algo-erp/dsp/window"
	"github.com/cwbudde/algo-erp/eeg"
)

// stage filters one channel and returns a new slice.
type stage func([]float64) ([]float64, error)

// Filter returns a filtered copy of raw.
func Filter(raw *eeg.Raw, p FilterParams, opts ...core.ProcessorOption) (*eeg.Raw, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	p = p.withDefaults()

	if err := p.Validate(raw.SampleRate); err != nil {
		return nil, err
	}

	var stages []stage

	if p.LowHz > 0 || p.HighHz > 0 {
		var (
			band stage
			err  error
		)
		switch p.Method {
		case MethodFIR:
			band, err = firStage(p, raw.SampleRate, raw.NumSamples(), cfg)
		default:
			band, err = iirStage(p, raw.SampleRate, cfg)
		}
		if err != nil {
			return nil, err
		}
		stages = append(stages, band)
	}

	for _, f := range p.NotchHz {
		stages = append(stages, chainStage(biquad.NewChain([]biquad.Coefficients{
			design.Notch(f, p.NotchQ, raw.SampleRate),
		}), p.Phase))
		cfg.Logger.Debug("notch filter", "freq_hz", f, "q", p.NotchQ)
	}

	out := raw.Copy()
	for c, x := range out.Data {
		for _, s := range stages {
			y, err := s(x)
			if err != nil {
				return nil, fmt.Errorf("preprocess: channel %s: %w", out.Channels[c].Name, err)
			}
			x = y
		}
		out.Data[c] = x
	}

	cfg.Logger.Info("recording filtered",
		"method", p.Method,
		"low_hz", p.LowHz,
		"high_hz", p.HighHz,
		"notch_hz", p.NotchHz,
		"phase", p.Phase,
		"channels", out.NumChannels(),
	)

	return out, nil
}

func iirStage(p FilterParams, fs float64, cfg core.ProcessorConfig) (stage, error) {
	coeffs := pass.ButterworthBP(p.LowHz, p.HighHz, p.Order, fs)
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: cannot design order-%d Butterworth for %g-%g Hz",
			ErrInvalidParams, p.Order, p.LowHz, p.HighHz)
	}
	chain := biquad.NewChain(coeffs)
	cfg.Logger.Debug("iir band filter", "order", p.Order, "sections", chain.NumSections(), "pad", chain.PadLen())
	return chainStage(chain, p.Phase), nil
}

func chainStage(chain *biquad.Chain, phase Phase) stage {
	if phase == PhaseCausal {
		return func(x []float64) ([]float64, error) {
			y := append([]float64(nil), x...)
			chain.Reset()
			chain.ProcessBlock(y)
			chain.Reset()
			return y, nil
		}
	}
	return func(x []float64) ([]float64, error) {
		return chain.FiltFilt(x), nil
	}
}

func firStage(p FilterParams, fs float64, samples int, cfg core.ProcessorConfig) (stage, error) {
	wt, err := window.ParseType(p.FIRWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	d, err := fir.DesignBand(p.LowHz, p.HighHz, fs, wt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if len(d.Taps) > samples {
		return nil, fmt.Errorf("%w: FIR length %d exceeds signal length %d",
			ErrInvalidParams, len(d.Taps), samples)
	}

	cfg.Logger.Debug("fir band filter",
		"taps", len(d.Taps),
		"window", wt.String(),
		"low_trans_hz", d.LowTrans,
		"high_trans_hz", d.HighTrans,
		"duration_s", float64(len(d.Taps))/fs,
	)

	if p.Phase == PhaseCausal {
		f := fir.New(d.Taps)
		return func(x []float64) ([]float64, error) {
			y := make([]float64, len(x))
			f.Reset()
			f.ProcessBlockTo(y, x)
			return y, nil
		}, nil
	}

	zp, err := fir.NewZeroPhase(d.Taps, cfg.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return zp.Apply, nil
}
