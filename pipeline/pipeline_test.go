package pipeline

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erp/config"
	"github.com/cwbudde/algo-erp/eeg"
	"github.com/cwbudde/algo-erp/epochs"
	"github.com/cwbudde/algo-erp/internal/logging"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// row is one table line; a nil signal marks an event row.
type row struct {
	signal []float64
	code   float64
}

func writeRecording(t *testing.T, rows []row) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("o1,o2,t3,t4,event_id\n")
	for _, r := range rows {
		if r.signal == nil {
			b.WriteString(",,,," + strconv.FormatFloat(r.code, 'g', -1, 64) + "\n")
			continue
		}
		cells := make([]string, len(r.signal))
		for i, v := range r.signal {
			cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		b.WriteString(strings.Join(cells, ",") + ",\n")
	}
	path := filepath.Join(t.TempDir(), "recording.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func signal(v float64) row { return row{signal: []float64{v, 10 * v, 100 * v, 1000 * v}} }

func marker(code float64) row { return row{code: code} }

// unfiltered returns a config that passes the recording through untouched.
func unfiltered(path string) *config.Config {
	cfg := config.New()
	cfg.Input.Path = path
	cfg.Filter.LowHz, cfg.Filter.HighHz = 0, 0
	cfg.Plot.Enabled = false
	return cfg
}

func TestRunSmallRecording(t *testing.T) {
	path := writeRecording(t, []row{
		marker(1), signal(1), signal(2),
		marker(2), signal(3), signal(4),
		marker(1), signal(5), signal(6), signal(7),
	})
	cfg := unfiltered(path)
	cfg.Epochs.TMin, cfg.Epochs.TMax = 0, 0.008

	res, err := Run(context.Background(), cfg, discard)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Raw.NumSamples())
	assert.Equal(t, eeg.Events{{Row: 1, Sample: 1, Code: 1}, {Row: 4, Sample: 4, Code: 2}, {Row: 7, Sample: 7, Code: 1}}, res.Events)
	require.Equal(t, 2, res.Epochs.Len())
	assert.Equal(t, 1, res.Epochs.Count("Standard"))
	assert.Equal(t, 1, res.Epochs.Count("Odd"))
	// The window at sample 7 runs past the seven signal samples.
	require.Len(t, res.Epochs.DropLog, 1)
	assert.Equal(t, 7, res.Epochs.DropLog[0].Event.Sample)

	std := res.Evoked["Standard"]
	require.NotNil(t, std)
	assert.Equal(t, 1, std.NAve)
	assert.InDeltaSlice(t, []float64{2, 3}, std.Data[0], 1e-12)
	assert.InDeltaSlice(t, []float64{2000, 3000}, std.Data[3], 1e-12)
	assert.InDeltaSlice(t, []float64{5, 6}, res.Evoked["Odd"].Data[0], 1e-12)
	require.NotNil(t, res.Difference)
	assert.InDeltaSlice(t, []float64{3, 3}, res.Difference.Data[0], 1e-12)

	// The default P300 window lies past this two-sample epoch.
	assert.Empty(t, res.Measures)
	assert.Empty(t, res.Files)
	assert.NotEmpty(t, res.RunID)
}

func TestRunAllowList(t *testing.T) {
	path := writeRecording(t, []row{
		marker(10000), signal(1), marker(7), signal(2),
		marker(2), signal(3), signal(4), signal(5), signal(6), signal(7),
		marker(10001),
	})
	cfg := unfiltered(path)
	cfg.Epochs.TMin, cfg.Epochs.TMax = 0, 0.008

	res, err := Run(context.Background(), cfg, discard)
	require.NoError(t, err)

	assert.Equal(t, []int{10000, 2, 10001}, res.Events.Codes())
	require.Equal(t, 1, res.Epochs.Len())
	assert.Equal(t, "Odd", res.Epochs.Trials[0].Label)
	assert.Equal(t, []float64{6, 7}, res.Epochs.Trials[0].Data[0])
	assert.NotContains(t, res.Evoked, "Standard")
}

func TestRunNoTrials(t *testing.T) {
	path := writeRecording(t, []row{signal(1), signal(2), marker(1), signal(3)})
	cfg := unfiltered(path)

	_, err := Run(context.Background(), cfg, discard)
	require.ErrorIs(t, err, epochs.ErrNoTrials)
}

func TestRunCanceled(t *testing.T) {
	cfg := unfiltered(writeRecording(t, []row{marker(1), signal(1)}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, discard)
	require.ErrorIs(t, err, context.Canceled)
}

// oddballRecording returns ten seconds at 250 Hz of a phase-locked 10 Hz
// rhythm with events every second from 1 s to 8 s, alternating standard
// and odd. Odd events add a 10 µV bump 300 ms after the stimulus. Each
// marker row is placed so that its shifted row index is the stimulus
// sample.
func oddballRecording() []row {
	const fs = 250.0
	n := int(10 * fs)
	x := make([]float64, n)
	for i := range x {
		x[i] = 2 * math.Sin(2*math.Pi*10*float64(i)/fs)
	}
	for s := 2; s <= 8; s += 2 {
		for i := range x {
			d := float64(i)/fs - (float64(s) + 0.3)
			x[i] += 10 * math.Exp(-0.5*d*d/(0.04*0.04))
		}
	}

	var rows []row
	k := 0
	for i, v := range x {
		// k markers precede this one, and Row is the table row plus one.
		if k < 8 && i == int(fs)*(k+1)-(k+1) {
			code := 1.0
			if k%2 == 1 {
				code = 2
			}
			rows = append(rows, marker(code))
			k++
		}
		rows = append(rows, row{signal: []float64{v, v, v, v}})
	}
	return rows
}

func TestRunOddball(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Input.Path = writeRecording(t, oddballRecording())
	cfg.Plot.OutDir = filepath.Join(dir, "plots")
	cfg.Export.EDFPath = filepath.Join(dir, "filtered.edf")
	cfg.Metrics.TextfilePath = filepath.Join(dir, "erp.prom")

	ctx := logging.WithRunID(context.Background(), "run-1")
	res, err := Run(ctx, cfg, discard)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	require.Len(t, res.Events, 8)
	for k, e := range res.Events {
		assert.Equal(t, 250*(k+1), e.Sample)
	}
	assert.Equal(t, 4, res.Epochs.Count("Odd"))
	assert.Equal(t, 4, res.Epochs.Count("Standard"))
	assert.Len(t, res.Epochs.Times, 250)

	byKey := map[string]float64{}
	for _, m := range res.Measures {
		if m.Channel == "O1" {
			byKey[m.Condition+"/peak"] = m.PeakAmplitude
			byKey[m.Condition+"/mean"] = m.MeanAmplitude
			if m.Condition == "Odd" {
				assert.InDelta(t, 0.3, m.PeakLatency, 0.03)
			}
		}
	}
	assert.Greater(t, byKey["Odd/peak"], byKey["Standard/peak"]+5)
	assert.Greater(t, byKey["Odd/mean"], byKey["Standard/mean"])

	require.NotNil(t, res.Difference)
	assert.Equal(t, "Odd-Standard", res.Difference.Label)
	assert.InDelta(t, byKey["Odd/mean"]-byKey["Standard/mean"], byKey["Odd-Standard/mean"], 1e-9)

	assert.Equal(t, []string{
		filepath.Join(dir, "plots", "channels.png"),
		filepath.Join(dir, "plots", "compare.png"),
		cfg.Export.EDFPath,
		cfg.Metrics.TextfilePath,
	}, res.Files)
	for _, f := range res.Files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), f)
	}

	prom, err := os.ReadFile(cfg.Metrics.TextfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `erp_trials{condition="Odd",run_id="run-1"} 4`)
	assert.Contains(t, string(prom), `erp_recording_samples{run_id="run-1"} 2500`)
}

func TestPrefiltering(t *testing.T) {
	p := FilterParams(config.FilterConfig{LowHz: 1, HighHz: 40, NotchHz: []float64{50}})
	assert.Equal(t, "HP:1Hz LP:40Hz N:50Hz", prefiltering(p))
	assert.Empty(t, prefiltering(FilterParams(config.FilterConfig{})))
}

func TestEpochOptions(t *testing.T) {
	o := EpochOptions(config.EpochsConfig{Baseline: []float64{-0.2, 0}, OnOutOfBounds: "error"})
	require.NotNil(t, o.Baseline)
	assert.Equal(t, [2]float64{-0.2, 0}, *o.Baseline)
	assert.Equal(t, "error", string(o.OnOutOfBounds))

	assert.Nil(t, EpochOptions(config.EpochsConfig{}).Baseline)
}

func TestPlotOptions(t *testing.T) {
	o := PlotOptions(config.New().Plot)
	require.NotNil(t, o.Band)
	assert.Equal(t, [2]float64{0.25, 0.35}, *o.Band)
	assert.False(t, o.NoBand)
	assert.Equal(t, "Odd", o.Target)
	assert.Equal(t, "Standard", o.NonTarget)

	o = PlotOptions(config.PlotConfig{Target: "Rare", NonTarget: "Frequent"})
	assert.Nil(t, o.Band)
	assert.True(t, o.NoBand)
	assert.Equal(t, "Rare", o.Target)
	assert.Equal(t, "Frequent", o.NonTarget)
}
