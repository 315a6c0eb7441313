package ingest

import (
	"github.com/cwbudde/algo-erp/dsp/core"
	"github.com/cwbudde/algo-erp/eeg"
	"github.com/cwbudde/algo-erp/eeg/montage"
)

// Anchor selects how an event's Sample is derived from its Row.
type Anchor string

const (
	// AnchorRow uses the shifted Row itself as the sample index, ignoring
	// rows dropped from the signal axis.
	AnchorRow Anchor = "row"
	// AnchorNext anchors an event at the first retained signal row at or
	// after its Row.
	AnchorNext Anchor = "next"
)

// Layout describes where the signal and the markers live in a table.
type Layout struct {
	// Channels lists the channel columns in output order.
	Channels    []string
	EventColumn string
	SampleRate  float64
	// Montage names the electrode positions to apply; empty skips it.
	Montage string
	// EventCodes is the allow-list of codes kept in the event table.
	EventCodes []int
	// RowOffset is added to the source row index to form Event.Row.
	RowOffset int
	Anchor    Anchor
}

// DefaultLayout is the layout of the four-channel oddball recordings.
func DefaultLayout() Layout {
	return Layout{
		Channels:    []string{"o1", "o2", "t3", "t4"},
		EventColumn: "event_id",
		SampleRate:  core.DefaultSampleRate,
		Montage:     montage.Standard1020,
		EventCodes:  append([]int(nil), eeg.DefaultEventCodes...),
		RowOffset:   1,
		Anchor:      AnchorRow,
	}
}

// columns returns every column the layout reads.
func (l Layout) columns() []string {
	return append(append([]string(nil), l.Channels...), l.EventColumn)
}
