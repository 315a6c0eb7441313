package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the relations between fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	f := c.Filter
	if f.LowHz > 0 && f.HighHz > 0 && f.LowHz >= f.HighHz {
		return fmt.Errorf("%w: filter.low_hz %g must be below filter.high_hz %g", ErrInvalidConfig, f.LowHz, f.HighHz)
	}
	nyq := c.Input.SampleRate / 2
	if f.LowHz >= nyq || f.HighHz >= nyq {
		return fmt.Errorf("%w: filter cut-offs must be below Nyquist (%g Hz)", ErrInvalidConfig, nyq)
	}
	for _, n := range f.NotchHz {
		if n >= nyq {
			return fmt.Errorf("%w: notch %g Hz at or above Nyquist (%g Hz)", ErrInvalidConfig, n, nyq)
		}
	}

	e := c.Epochs
	if e.TMin >= e.TMax {
		return fmt.Errorf("%w: epochs.tmin %g must be below epochs.tmax %g", ErrInvalidConfig, e.TMin, e.TMax)
	}
	if len(e.Baseline) == 2 && e.Baseline[0] > e.Baseline[1] {
		return fmt.Errorf("%w: epochs.baseline %v is inverted", ErrInvalidConfig, e.Baseline)
	}
	seen := make(map[int]string, len(e.EventID))
	for label, code := range e.EventID {
		if other, dup := seen[code]; dup {
			return fmt.Errorf("%w: epochs.event_id maps code %d to %q and %q", ErrInvalidConfig, code, other, label)
		}
		seen[code] = label
	}

	if c.Measure.From >= c.Measure.To {
		return fmt.Errorf("%w: measure.from %g must be below measure.to %g", ErrInvalidConfig, c.Measure.From, c.Measure.To)
	}
	if len(c.Plot.Band) == 2 && c.Plot.Band[0] >= c.Plot.Band[1] {
		return fmt.Errorf("%w: plot.band %v is empty", ErrInvalidConfig, c.Plot.Band)
	}
	if c.Plot.Enabled {
		for _, label := range []string{c.Plot.Target, c.Plot.NonTarget} {
			if _, ok := e.EventID[label]; !ok {
				return fmt.Errorf("%w: plot condition %q is not in epochs.event_id", ErrInvalidConfig, label)
			}
		}
	}

	return nil
}
