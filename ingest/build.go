package ingest

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cwbudde/algo-erp/dsp/core"
	"github.com/cwbudde/algo-erp/eeg"
	"github.com/cwbudde/algo-erp/eeg/montage"
)

// Build splits t into a recording and its event table according to l.
//
// Rows missing any channel value are dropped from the signal axis. Rows
// missing the event code are dropped from the event table, as are codes
// outside l.EventCodes. Each event gets Row = source row + l.RowOffset and
// a Sample resolved per l.Anchor.
func Build(t *Table, l Layout, opts ...core.ProcessorOption) (*eeg.Raw, eeg.Events, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	logger := cfg.Logger

	if len(l.Channels) == 0 {
		return nil, nil, columnError("", "layout names no channel columns")
	}
	if t == nil || t.Len() == 0 {
		return nil, nil, columnError("", "table is empty")
	}
	rate := l.SampleRate
	if rate <= 0 {
		rate = cfg.SampleRate
	}

	cols := make([][]float64, len(l.Channels))
	for i, name := range l.Channels {
		c, ok := t.Column(name)
		if !ok {
			return nil, nil, columnError(name, "missing column")
		}
		cols[i] = c
	}
	codes, ok := t.Column(l.EventColumn)
	if !ok {
		return nil, nil, columnError(l.EventColumn, "missing column")
	}

	kept := signalRows(cols, t.Len())
	if len(kept) == 0 {
		return nil, nil, columnError("", "no row has a value in every channel column")
	}

	data := make([][]float64, len(cols))
	channels := make([]eeg.Channel, len(cols))
	for c, col := range cols {
		row := make([]float64, len(kept))
		for j, src := range kept {
			row[j] = col[src]
		}
		data[c] = row
		channels[c] = eeg.Channel{Name: strings.ToUpper(l.Channels[c]), Kind: eeg.KindEEG}
	}

	raw, err := eeg.NewRaw(rate, channels, data)
	if err != nil {
		return nil, nil, &ValidationError{Row: -1, Reason: "build recording", Err: err}
	}

	if l.Montage != "" {
		m, err := montage.Lookup(l.Montage)
		if err != nil {
			return nil, nil, &ValidationError{Row: -1, Reason: "montage", Err: err}
		}
		if raw, err = m.Apply(raw); err != nil {
			return nil, nil, &ValidationError{Row: -1, Reason: "montage", Err: err}
		}
	}

	events, discarded, err := buildEvents(codes, kept, l)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("channels loaded", "count", raw.NumChannels(), "names", raw.ChannelNames())
	logger.Info("time points loaded",
		"count", humanize.Comma(int64(raw.NumSamples())),
		"dropped_rows", humanize.Comma(int64(t.Len()-len(kept))),
		"duration", fmt.Sprintf("%.1fs", raw.Duration()),
	)
	logger.Info("events loaded", "count", len(events), "discarded", discarded)

	return raw, events, nil
}

// signalRows returns the source rows that have a value in every column.
func signalRows(cols [][]float64, n int) []int {
	kept := make([]int, 0, n)
rows:
	for i := range n {
		for _, c := range cols {
			if math.IsNaN(c[i]) {
				continue rows
			}
		}
		kept = append(kept, i)
	}
	return kept
}

func buildEvents(codes []float64, kept []int, l Layout) (eeg.Events, int, error) {
	allowed := make(map[int]bool, len(l.EventCodes))
	for _, c := range l.EventCodes {
		allowed[c] = true
	}

	var (
		events    eeg.Events
		discarded int
	)
	for i, v := range codes {
		if math.IsNaN(v) {
			continue
		}
		if !core.IsIntegral(v) {
			return nil, 0, cellError(l.EventColumn, i, fmt.Sprintf("event code %g is not an integer", v))
		}
		code := int(v)
		if !allowed[code] {
			discarded++
			continue
		}

		row := i + l.RowOffset
		sample := row
		if l.Anchor != AnchorRow {
			sample = sort.SearchInts(kept, row)
		}
		events = append(events, eeg.Event{Row: row, Sample: sample, Code: code})
	}

	return events, discarded, nil
}

// Load reads path and builds the recording and events from it.
func Load(path string, l Layout, ro ReadOptions, opts ...core.ProcessorOption) (*eeg.Raw, eeg.Events, error) {
	if len(ro.Columns) == 0 {
		ro.Columns = l.columns()
	}

	t, err := Read(path, ro)
	if err != nil {
		return nil, nil, err
	}

	cfg := core.ApplyProcessorOptions(opts...)
	cfg.Logger.Debug("table read", "path", path, "rows", humanize.Comma(int64(t.Len())), "columns", t.Columns())

	return Build(t, l, opts...)
}
