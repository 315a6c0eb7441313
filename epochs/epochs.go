// Package epochs cuts fixed-length, event-locked windows out of a
// continuous recording and groups them by condition.
package epochs

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-erp/dsp/core"
	"github.com/cwbudde/algo-erp/eeg"
	"github.com/cwbudde/algo-erp/erp"
	tstats "github.com/cwbudde/algo-erp/stats/time"
)

var (
	// ErrInvalidWindow is returned for an empty or inverted epoch or
	// baseline interval.
	ErrInvalidWindow = errors.New("epochs: invalid time window")
	// ErrInvalidEventID is returned for an empty mapping or a code mapped
	// to more than one label.
	ErrInvalidEventID = errors.New("epochs: invalid event id mapping")
	// ErrOutOfBounds is returned under [OnOutOfBoundsError] for a window
	// that extends past the recording.
	ErrOutOfBounds = errors.New("epochs: window out of bounds")
	// ErrNoTrials is returned when no event produced a trial.
	ErrNoTrials = errors.New("epochs: no trials")
	// ErrEmptyCondition is returned when averaging a label with no trials.
	ErrEmptyCondition = errors.New("epochs: condition has no trials")
)

// Drop reasons.
const (
	ReasonNoData    = "NO_DATA"
	ReasonRejectPTP = "REJECT_PTP"
)

// OutOfBounds selects what happens to windows that leave the recording.
type OutOfBounds string

const (
	OnOutOfBoundsDrop  OutOfBounds = "drop"
	OnOutOfBoundsError OutOfBounds = "error"
)

// Options tunes [Create]. The zero value drops out-of-bounds windows and
// applies neither baseline correction nor rejection.
type Options struct {
	// Baseline, when set, is the [from, to] interval in seconds whose
	// per-channel mean is subtracted from each trial.
	Baseline *[2]float64
	// RejectPeakToPeak drops trials whose peak-to-peak amplitude on any
	// channel exceeds it. Zero disables rejection.
	RejectPeakToPeak float64
	OnOutOfBounds    OutOfBounds
}

// Trial is one event-locked window, indexed [channel][sample].
type Trial struct {
	Label string
	Event eeg.Event
	Data  [][]float64
}

// Drop records an event that produced no trial.
type Drop struct {
	Label  string
	Event  eeg.Event
	Reason string
}

// Epochs is a collection of equally long trials.
type Epochs struct {
	SampleRate float64
	Channels   []eeg.Channel
	TMin       float64
	TMax       float64
	// Times is the trial time axis in seconds relative to the event.
	Times   []float64
	EventID map[string]int
	Trials  []Trial
	DropLog []Drop
}

// WindowLength returns the number of samples in a [tmin, tmax) window.
func WindowLength(tmin, tmax, sampleRate float64) int {
	return int(math.Round((tmax - tmin) * sampleRate))
}

// Create cuts one trial per event whose code appears in eventID. Trials
// span [anchor + round(tmin*fs), that + round((tmax-tmin)*fs)), where the
// anchor is the event's Sample.
func Create(raw *eeg.Raw, events eeg.Events, eventID map[string]int, tmin, tmax float64,
	o Options, opts ...core.ProcessorOption,
) (*Epochs, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	logger := cfg.Logger
	fs := raw.SampleRate

	labels, err := invert(eventID)
	if err != nil {
		return nil, err
	}

	n := WindowLength(tmin, tmax, fs)
	if tmin >= tmax || n < 1 {
		return nil, fmt.Errorf("%w: [%g, %g) s at %g Hz", ErrInvalidWindow, tmin, tmax, fs)
	}
	offset := int(math.Round(tmin * fs))

	times := make([]float64, n)
	for i := range times {
		times[i] = float64(offset+i) / fs
	}

	var b0, b1 int
	if o.Baseline != nil {
		if b0, b1, err = baselineRange(times, *o.Baseline); err != nil {
			return nil, err
		}
	}

	policy := o.OnOutOfBounds
	if policy == "" {
		policy = OnOutOfBoundsDrop
	}

	ep := &Epochs{
		SampleRate: fs,
		Channels:   eeg.CopyChannels(raw.Channels),
		TMin:       tmin,
		TMax:       tmax,
		Times:      times,
		EventID:    copyEventID(eventID),
	}

	total := raw.NumSamples()
	for _, ev := range events {
		label, ok := labels[ev.Code]
		if !ok {
			continue
		}

		start := ev.Sample + offset
		if start < 0 || start+n > total {
			if policy == OnOutOfBoundsError {
				return nil, fmt.Errorf("%w: %s event at sample %d needs [%d, %d) of %d samples",
					ErrOutOfBounds, label, ev.Sample, start, start+n, total)
			}
			ep.DropLog = append(ep.DropLog, Drop{Label: label, Event: ev, Reason: ReasonNoData})
			continue
		}

		data := make([][]float64, len(raw.Data))
		for c, x := range raw.Data {
			data[c] = append([]float64(nil), x[start:start+n]...)
			if o.Baseline != nil {
				subtractMean(data[c], b0, b1)
			}
		}

		if o.RejectPeakToPeak > 0 {
			if ch := exceedsPeakToPeak(data, o.RejectPeakToPeak); ch >= 0 {
				ep.DropLog = append(ep.DropLog, Drop{
					Label:  label,
					Event:  ev,
					Reason: ReasonRejectPTP + ":" + raw.Channels[ch].Name,
				})
				continue
			}
		}

		ep.Trials = append(ep.Trials, Trial{Label: label, Event: ev, Data: data})
	}

	for _, label := range ep.Labels() {
		if events.Count(eventID[label]) == 0 {
			logger.Warn("no events for condition", "label", label, "code", eventID[label])
		}
	}
	if len(ep.DropLog) > 0 {
		logger.Warn("events dropped", "count", len(ep.DropLog))
	}

	if len(ep.Trials) == 0 {
		return nil, fmt.Errorf("%w: %d events, %d dropped", ErrNoTrials, len(events), len(ep.DropLog))
	}

	attrs := []any{"trials", len(ep.Trials), "samples", n, "tmin", tmin, "tmax", tmax}
	for _, label := range ep.Labels() {
		attrs = append(attrs, label, ep.Count(label))
	}
	logger.Info("epochs created", attrs...)

	return ep, nil
}

func invert(eventID map[string]int) (map[int]string, error) {
	if len(eventID) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidEventID)
	}
	labels := make(map[int]string, len(eventID))
	for label, code := range eventID {
		if prev, dup := labels[code]; dup {
			a, b := prev, label
			if b < a {
				a, b = b, a
			}
			return nil, fmt.Errorf("%w: code %d mapped to both %q and %q", ErrInvalidEventID, code, a, b)
		}
		labels[code] = label
	}
	return labels, nil
}

func copyEventID(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// baselineRange returns the sample range of times within iv.
func baselineRange(times []float64, iv [2]float64) (int, int, error) {
	if iv[0] > iv[1] {
		return 0, 0, fmt.Errorf("%w: baseline [%g, %g]", ErrInvalidWindow, iv[0], iv[1])
	}
	// Half a sample of slack absorbs rounding of the time axis.
	slack := 0.5 * (times[len(times)-1] - times[0]) / float64(max(len(times)-1, 1))
	b0, b1 := -1, -1
	for i, t := range times {
		if t >= iv[0]-slack && b0 < 0 {
			b0 = i
		}
		if t <= iv[1]+slack {
			b1 = i + 1
		}
	}
	if b0 < 0 || b1 <= b0 {
		return 0, 0, fmt.Errorf("%w: baseline [%g, %g] outside the epoch", ErrInvalidWindow, iv[0], iv[1])
	}
	return b0, b1, nil
}

func subtractMean(x []float64, from, to int) {
	m := tstats.Mean(x[from:to])
	for i := range x {
		x[i] -= m
	}
}

// exceedsPeakToPeak returns the first channel whose range exceeds limit, or -1.
func exceedsPeakToPeak(data [][]float64, limit float64) int {
	for c, x := range data {
		if tstats.PeakToPeak(x) > limit {
			return c
		}
	}
	return -1
}

// Labels returns the condition labels ordered by event code.
func (e *Epochs) Labels() []string {
	labels := make([]string, 0, len(e.EventID))
	for l := range e.EventID {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return e.EventID[labels[i]] < e.EventID[labels[j]]
	})
	return labels
}

// Len returns the total trial count.
func (e *Epochs) Len() int { return len(e.Trials) }

// Count returns the number of trials labelled label.
func (e *Epochs) Count(label string) int {
	var n int
	for _, tr := range e.Trials {
		if tr.Label == label {
			n++
		}
	}
	return n
}

// Select returns a new collection holding only the trials labelled label.
// Trial data is shared with e.
func (e *Epochs) Select(label string) *Epochs {
	out := *e
	out.Channels = eeg.CopyChannels(e.Channels)
	out.Times = append([]float64(nil), e.Times...)
	out.EventID = map[string]int{}
	if code, ok := e.EventID[label]; ok {
		out.EventID[label] = code
	}
	out.Trials = nil
	for _, tr := range e.Trials {
		if tr.Label == label {
			out.Trials = append(out.Trials, tr)
		}
	}
	out.DropLog = nil
	for _, d := range e.DropLog {
		if d.Label == label {
			out.DropLog = append(out.DropLog, d)
		}
	}
	return &out
}

// Data returns the trials' data, each indexed [channel][sample].
func (e *Epochs) Data() [][][]float64 {
	out := make([][][]float64, len(e.Trials))
	for i, tr := range e.Trials {
		out[i] = tr.Data
	}
	return out
}

// Average returns the evoked response of one condition.
func (e *Epochs) Average(label string) (*erp.Evoked, error) {
	sel := e.Select(label)
	if sel.Len() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCondition, label)
	}
	return erp.Average(label, e.Channels, e.Times, sel.Data())
}
