package pipeline

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-erp/config"
	"github.com/cwbudde/algo-erp/epochs"
	"github.com/cwbudde/algo-erp/ingest"
	"github.com/cwbudde/algo-erp/preprocess"
	"github.com/cwbudde/algo-erp/viz"
)

// Layout maps the input section onto an ingestion layout.
func Layout(c config.InputConfig) ingest.Layout {
	return ingest.Layout{
		Channels:    append([]string(nil), c.Channels...),
		EventColumn: c.EventColumn,
		SampleRate:  c.SampleRate,
		Montage:     c.Montage,
		EventCodes:  append([]int(nil), c.EventCodes...),
		RowOffset:   c.RowOffset,
		Anchor:      ingest.Anchor(c.Anchor),
	}
}

// ReadOptions maps the input section onto table reading options.
func ReadOptions(c config.InputConfig) ingest.ReadOptions {
	return ingest.ReadOptions{
		Format: ingest.Format(c.Format),
		Sheet:  c.Sheet,
	}
}

// FilterParams maps the filter section onto filter parameters.
func FilterParams(c config.FilterConfig) preprocess.FilterParams {
	return preprocess.FilterParams{
		LowHz:     c.LowHz,
		HighHz:    c.HighHz,
		Method:    preprocess.Method(c.Method),
		Order:     c.Order,
		NotchHz:   append([]float64(nil), c.NotchHz...),
		NotchQ:    c.NotchQ,
		FIRWindow: c.FIRWindow,
		Phase:     preprocess.Phase(c.Phase),
	}
}

// EpochOptions maps the epochs section onto segmentation options.
func EpochOptions(c config.EpochsConfig) epochs.Options {
	o := epochs.Options{
		RejectPeakToPeak: c.RejectPeakToPeak,
		OnOutOfBounds:    epochs.OutOfBounds(c.OnOutOfBounds),
	}
	if len(c.Baseline) == 2 {
		o.Baseline = &[2]float64{c.Baseline[0], c.Baseline[1]}
	}
	return o
}

// PlotOptions maps the plot section onto figure options.
func PlotOptions(c config.PlotConfig) viz.Options {
	o := viz.Options{
		Width:     c.Width,
		Height:    c.Height,
		NoBand:    len(c.Band) == 0,
		Target:    c.Target,
		NonTarget: c.NonTarget,
	}
	if len(c.Band) == 2 {
		o.Band = &[2]float64{c.Band[0], c.Band[1]}
	}
	return o
}

// prefiltering describes p in EDF header notation, e.g. "HP:1Hz LP:40Hz".
func prefiltering(p preprocess.FilterParams) string {
	var parts []string
	if p.LowHz > 0 {
		parts = append(parts, fmt.Sprintf("HP:%gHz", p.LowHz))
	}
	if p.HighHz > 0 {
		parts = append(parts, fmt.Sprintf("LP:%gHz", p.HighHz))
	}
	for _, f := range p.NotchHz {
		parts = append(parts, fmt.Sprintf("N:%gHz", f))
	}
	return strings.Join(parts, " ")
}
