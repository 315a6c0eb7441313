package eeg

import "slices"

// Standard event codes of the oddball paradigm.
const (
	CodeStandard        = 1
	CodeOdd             = 2
	CodeExperimentStart = 10000
	CodeExperimentEnd   = 10001
)

// DefaultEventCodes is the allow-list of codes kept at ingestion.
var DefaultEventCodes = []int{CodeStandard, CodeOdd, CodeExperimentStart, CodeExperimentEnd}

// Event is one stimulus marker.
type Event struct {
	// Row is the marker's source row plus the ingestion offset.
	Row int
	// Sample is the position on the recording's sample axis the marker
	// anchors to. It may equal the recording length when no sample follows
	// the marker.
	Sample int
	Code   int
}

// Events is an ordered event table.
type Events []Event

// Codes returns the distinct codes in order of first appearance.
func (ev Events) Codes() []int {
	var out []int
	for _, e := range ev {
		if !slices.Contains(out, e.Code) {
			out = append(out, e.Code)
		}
	}
	return out
}

// Count returns how many events carry code.
func (ev Events) Count(code int) int {
	var n int
	for _, e := range ev {
		if e.Code == code {
			n++
		}
	}
	return n
}

// Filter returns the events whose code is in codes, preserving order.
func (ev Events) Filter(codes ...int) Events {
	out := make(Events, 0, len(ev))
	for _, e := range ev {
		if slices.Contains(codes, e.Code) {
			out = append(out, e)
		}
	}
	return out
}
