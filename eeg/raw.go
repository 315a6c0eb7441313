package eeg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShape is returned when channel metadata and data disagree.
var ErrShape = errors.New("eeg: inconsistent shape")

// Kind is a channel type.
type Kind string

const (
	KindEEG  Kind = "eeg"
	KindStim Kind = "stim"
	KindMisc Kind = "misc"
)

// Position is an electrode location in head coordinates, in metres.
type Position [3]float64

// Channel describes one recorded channel.
type Channel struct {
	Name string
	Kind Kind
	// Pos is nil until a montage is applied.
	Pos *Position
}

// Raw is a continuous multi-channel recording sampled at a fixed rate.
// Data is indexed [channel][sample].
type Raw struct {
	SampleRate float64
	Channels   []Channel
	Data       [][]float64
	Montage    string
}

// NewRaw validates the shape and returns a Raw that owns data.
func NewRaw(sampleRate float64, channels []Channel, data [][]float64) (*Raw, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", ErrShape, sampleRate)
	}
	if len(channels) != len(data) {
		return nil, fmt.Errorf("%w: %d channels but %d data rows", ErrShape, len(channels), len(data))
	}
	for i := 1; i < len(data); i++ {
		if len(data[i]) != len(data[0]) {
			return nil, fmt.Errorf("%w: channel %s has %d samples, want %d",
				ErrShape, channels[i].Name, len(data[i]), len(data[0]))
		}
	}

	return &Raw{SampleRate: sampleRate, Channels: channels, Data: data}, nil
}

// NumChannels returns the channel count.
func (r *Raw) NumChannels() int { return len(r.Channels) }

// NumSamples returns the number of time points.
func (r *Raw) NumSamples() int {
	if len(r.Data) == 0 {
		return 0
	}
	return len(r.Data[0])
}

// Duration returns the recording length in seconds.
func (r *Raw) Duration() float64 {
	return float64(r.NumSamples()) / r.SampleRate
}

// Times returns the time of every sample in seconds, i / SampleRate.
func (r *Raw) Times() []float64 {
	t := make([]float64, r.NumSamples())
	for i := range t {
		t[i] = float64(i) / r.SampleRate
	}
	return t
}

// ChannelNames returns the channel names in order.
func (r *Raw) ChannelNames() []string {
	names := make([]string, len(r.Channels))
	for i, ch := range r.Channels {
		names[i] = ch.Name
	}
	return names
}

// ChannelIndex returns the index of the named channel, matched
// case-insensitively, or -1.
func (r *Raw) ChannelIndex(name string) int {
	for i, ch := range r.Channels {
		if strings.EqualFold(ch.Name, name) {
			return i
		}
	}
	return -1
}

// Copy returns a deep copy that shares no memory with r.
func (r *Raw) Copy() *Raw {
	out := &Raw{
		SampleRate: r.SampleRate,
		Channels:   CopyChannels(r.Channels),
		Data:       make([][]float64, len(r.Data)),
		Montage:    r.Montage,
	}
	for i, row := range r.Data {
		out.Data[i] = append([]float64(nil), row...)
	}
	return out
}

// CopyChannels deep-copies channel metadata, including positions.
func CopyChannels(chs []Channel) []Channel {
	out := make([]Channel, len(chs))
	for i, ch := range chs {
		out[i] = ch
		if ch.Pos != nil {
			p := *ch.Pos
			out[i].Pos = &p
		}
	}
	return out
}
