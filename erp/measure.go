package erp

import (
	"errors"
	"fmt"

	tstats "github.com/cwbudde/algo-erp/stats/time"
)

// ErrEmptyWindow is returned when a measurement window holds no sample.
var ErrEmptyWindow = errors.New("erp: empty measurement window")

// P300 search window in seconds.
const (
	P300From = 0.25
	P300To   = 0.5
)

// Peak is a waveform extremum.
type Peak struct {
	Amplitude float64
	Latency   float64 // seconds relative to the event
}

// window returns the sample range [i0, i1) whose times lie in [from, to].
func (e *Evoked) window(from, to float64) (int, int, error) {
	i0, i1 := -1, -1
	for i, t := range e.Times {
		if t >= from && i0 < 0 {
			i0 = i
		}
		if t <= to {
			i1 = i + 1
		}
	}
	if i0 < 0 || i1 <= i0 {
		return 0, 0, fmt.Errorf("%w: [%g, %g] s", ErrEmptyWindow, from, to)
	}
	return i0, i1, nil
}

// Peak returns the largest positive deflection of channel within
// [from, to] seconds.
func (e *Evoked) Peak(channel string, from, to float64) (Peak, error) {
	return e.PeakPolarity(channel, from, to, tstats.Positive)
}

// PeakPolarity is [Evoked.Peak] with a selectable polarity.
func (e *Evoked) PeakPolarity(channel string, from, to float64, pol tstats.Polarity) (Peak, error) {
	x, err := e.Channel(channel)
	if err != nil {
		return Peak{}, err
	}
	i0, i1, err := e.window(from, to)
	if err != nil {
		return Peak{}, err
	}
	v, pos, err := tstats.PeakIn(x, i0, i1, pol)
	if err != nil {
		return Peak{}, err
	}
	return Peak{Amplitude: v, Latency: e.Times[pos]}, nil
}

// MeanAmplitude returns the mean of channel within [from, to] seconds.
func (e *Evoked) MeanAmplitude(channel string, from, to float64) (float64, error) {
	x, err := e.Channel(channel)
	if err != nil {
		return 0, err
	}
	i0, i1, err := e.window(from, to)
	if err != nil {
		return 0, err
	}
	return tstats.MeanIn(x, i0, i1)
}

// Measure is the P300 summary of one channel of one condition.
type Measure struct {
	Condition     string
	Channel       string
	NAve          int
	PeakAmplitude float64
	PeakLatency   float64
	MeanAmplitude float64
}

// Measures returns the peak and mean amplitude in [from, to] seconds for
// every channel followed by the channel mean.
func (e *Evoked) Measures(from, to float64) ([]Measure, error) {
	names := append(e.ChannelNames(), CombinedChannel)
	out := make([]Measure, 0, len(names))
	for _, ch := range names {
		pk, err := e.Peak(ch, from, to)
		if err != nil {
			return nil, err
		}
		mean, err := e.MeanAmplitude(ch, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, Measure{
			Condition:     e.Label,
			Channel:       ch,
			NAve:          e.NAve,
			PeakAmplitude: pk.Amplitude,
			PeakLatency:   pk.Latency,
			MeanAmplitude: mean,
		})
	}
	return out, nil
}
