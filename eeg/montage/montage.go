// Package montage maps channel names to electrode positions of standard
// placement systems and attaches them to recordings.
package montage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/algo-erp/eeg"
)

var (
	// ErrUnknownMontage is returned for a montage name that is not built in.
	ErrUnknownMontage = errors.New("montage: unknown montage")
	// ErrMissingPosition is returned when an EEG channel has no position
	// in the montage.
	ErrMissingPosition = errors.New("montage: channel has no position")
)

// Standard1020 is the name of the international 10-20 montage.
const Standard1020 = "standard_1020"

// Montage is a named set of electrode positions.
type Montage struct {
	Name      string
	positions map[string]eeg.Position // keyed by upper-case name
}

// Lookup returns the built-in montage with the given name.
func Lookup(name string) (*Montage, error) {
	switch strings.ToLower(name) {
	case Standard1020:
		return &Montage{Name: Standard1020, positions: standard1020}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMontage, name)
	}
}

// Position returns the position of a channel, matched case-insensitively.
func (m *Montage) Position(channel string) (eeg.Position, bool) {
	p, ok := m.positions[strings.ToUpper(channel)]
	return p, ok
}

// Names returns the electrode names in sorted order.
func (m *Montage) Names() []string {
	names := make([]string, 0, len(m.positions))
	for n := range m.positions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of raw with every EEG channel's position set.
// Non-EEG channels are left without a position.
func (m *Montage) Apply(raw *eeg.Raw) (*eeg.Raw, error) {
	out := raw.Copy()
	for i, ch := range out.Channels {
		if ch.Kind != eeg.KindEEG {
			continue
		}
		p, ok := m.Position(ch.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingPosition, ch.Name, m.Name)
		}
		out.Channels[i].Pos = &p
	}
	out.Montage = m.Name
	return out, nil
}

func mm(x, y, z float64) eeg.Position {
	return eeg.Position{x / 1000, y / 1000, z / 1000}
}

// 10-20 positions on the average head, in head coordinates. The older
// temporal names T3/T4/T5/T6 alias T7/T8/P7/P8.
var standard1020 = map[string]eeg.Position{
	"FP1": mm(-29.4367, 83.9171, -6.9900),
	"FPZ": mm(0.1123, 88.2470, -1.7130),
	"FP2": mm(29.8723, 84.8959, -7.0800),
	"F7":  mm(-70.2629, 42.4743, -11.4200),
	"F3":  mm(-50.2438, 53.1112, 42.1920),
	"FZ":  mm(0.3122, 58.5120, 66.4620),
	"F4":  mm(51.8362, 54.3048, 40.8140),
	"F8":  mm(73.0431, 44.4217, -12.0000),
	"T7":  mm(-84.1611, -16.0187, -9.3460),
	"T3":  mm(-84.1611, -16.0187, -9.3460),
	"C3":  mm(-65.3581, -11.6317, 64.3580),
	"CZ":  mm(0.4009, -9.1670, 100.2440),
	"C4":  mm(67.1179, -10.9003, 63.5800),
	"T8":  mm(85.0799, -15.0203, -9.4900),
	"T4":  mm(85.0799, -15.0203, -9.4900),
	"P7":  mm(-72.4343, -73.4527, -2.4870),
	"T5":  mm(-72.4343, -73.4527, -2.4870),
	"P3":  mm(-53.0073, -78.7878, 55.9400),
	"PZ":  mm(0.3247, -81.1150, 82.6150),
	"P4":  mm(55.6667, -78.5602, 56.5610),
	"P8":  mm(73.0557, -73.0683, -2.5400),
	"T6":  mm(73.0557, -73.0683, -2.5400),
	"O1":  mm(-29.4367, -112.4163, 8.8390),
	"OZ":  mm(0.1076, -114.8920, 14.6570),
	"O2":  mm(29.8723, -112.1700, 8.8000),
}
