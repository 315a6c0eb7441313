// Package erp holds trial-averaged event-related potentials and the
// amplitude measures taken from them.
package erp

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-erp/eeg"
)

var (
	// ErrNoTrials is returned when averaging an empty trial set.
	ErrNoTrials = errors.New("erp: no trials to average")
	// ErrShape is returned when trials, channels and times disagree.
	ErrShape = errors.New("erp: inconsistent shape")
	// ErrUnknownChannel is returned for a channel not in the evoked response.
	ErrUnknownChannel = errors.New("erp: unknown channel")
)

// CombinedChannel names the mean across all channels in channel lookups.
const CombinedChannel = "mean"

// Evoked is the average of NAve trials of one condition. Data is indexed
// [channel][sample] and shares the Times axis.
type Evoked struct {
	Label    string
	Channels []eeg.Channel
	Times    []float64
	Data     [][]float64
	NAve     int
}

// Average returns the sample-wise arithmetic mean of trials, each indexed
// [channel][sample].
func Average(label string, channels []eeg.Channel, times []float64, trials [][][]float64) (*Evoked, error) {
	if len(trials) == 0 {
		return nil, fmt.Errorf("%w: condition %q", ErrNoTrials, label)
	}

	data := make([][]float64, len(channels))
	for c := range data {
		data[c] = make([]float64, len(times))
	}

	for k, trial := range trials {
		if len(trial) != len(channels) {
			return nil, fmt.Errorf("%w: trial %d has %d channels, want %d", ErrShape, k, len(trial), len(channels))
		}
		for c, x := range trial {
			if len(x) != len(times) {
				return nil, fmt.Errorf("%w: trial %d channel %d has %d samples, want %d",
					ErrShape, k, c, len(x), len(times))
			}
			floats.Add(data[c], x)
		}
	}

	for _, row := range data {
		floats.Scale(1/float64(len(trials)), row)
	}

	return &Evoked{
		Label:    label,
		Channels: eeg.CopyChannels(channels),
		Times:    append([]float64(nil), times...),
		Data:     data,
		NAve:     len(trials),
	}, nil
}

// CombineMean returns the mean across channels at every time sample.
func (e *Evoked) CombineMean() []float64 {
	out := make([]float64, len(e.Times))
	if len(e.Data) == 0 {
		return out
	}
	for _, row := range e.Data {
		floats.Add(out, row)
	}
	floats.Scale(1/float64(len(e.Data)), out)
	return out
}

// Channel returns the waveform of the named channel, matched
// case-insensitively. [CombinedChannel] selects [Evoked.CombineMean].
func (e *Evoked) Channel(name string) ([]float64, error) {
	if strings.EqualFold(name, CombinedChannel) {
		return e.CombineMean(), nil
	}
	for i, ch := range e.Channels {
		if strings.EqualFold(ch.Name, name) {
			return e.Data[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// ChannelNames returns the channel names in order.
func (e *Evoked) ChannelNames() []string {
	names := make([]string, len(e.Channels))
	for i, ch := range e.Channels {
		names[i] = ch.Name
	}
	return names
}

// Difference returns a - b, the difference wave of two conditions
// recorded on the same channels and time axis. NAve is the effective
// trial count of the difference, 1 / (1/na + 1/nb).
func Difference(label string, a, b *Evoked) (*Evoked, error) {
	if len(a.Data) != len(b.Data) || len(a.Times) != len(b.Times) {
		return nil, fmt.Errorf("%w: cannot subtract %q from %q", ErrShape, b.Label, a.Label)
	}

	data := make([][]float64, len(a.Data))
	for c := range data {
		data[c] = make([]float64, len(a.Times))
		floats.SubTo(data[c], a.Data[c], b.Data[c])
	}

	nave := 0
	if a.NAve > 0 && b.NAve > 0 {
		nave = int(1/(1/float64(a.NAve)+1/float64(b.NAve)) + 0.5)
	}

	return &Evoked{
		Label:    label,
		Channels: eeg.CopyChannels(a.Channels),
		Times:    append([]float64(nil), a.Times...),
		Data:     data,
		NAve:     nave,
	}, nil
}
