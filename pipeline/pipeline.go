// Package pipeline chains ingestion, filtering, segmentation, averaging
// and output for one recording.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cwbudde/algo-erp/config"
	"github.com/cwbudde/algo-erp/dsp/core"
	"github.com/cwbudde/algo-erp/eeg"
	"github.com/cwbudde/algo-erp/epochs"
	"github.com/cwbudde/algo-erp/erp"
	"github.com/cwbudde/algo-erp/export"
	"github.com/cwbudde/algo-erp/ingest"
	"github.com/cwbudde/algo-erp/internal/logging"
	"github.com/cwbudde/algo-erp/internal/metrics"
	"github.com/cwbudde/algo-erp/preprocess"
	"github.com/cwbudde/algo-erp/viz"
)

// Stage names, as reported in logs and metrics.
const (
	StageIngest  = "ingest"
	StageFilter  = "filter"
	StageEpochs  = "epochs"
	StageAverage = "average"
	StagePlot    = "plot"
	StageExport  = "export"
)

// Result holds everything a run produced.
type Result struct {
	RunID    string
	Raw      *eeg.Raw
	Events   eeg.Events
	Filtered *eeg.Raw
	Epochs   *epochs.Epochs
	// Evoked holds one average per condition with at least one trial.
	Evoked map[string]*erp.Evoked
	// Difference is the target minus non-target wave, when both exist.
	Difference *erp.Evoked
	Measures   []erp.Measure
	// Files lists every file written, in write order.
	Files []string
}

// Run executes the analysis described by cfg. The run id is taken from
// ctx when present, otherwise a new one is generated. ctx is checked
// between stages.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runID := logging.RunID(ctx)
	if runID == "" {
		runID = logging.NewRunID()
	}
	logger = logger.With("run_id", runID)
	opts := []core.ProcessorOption{
		core.WithSampleRate(cfg.Input.SampleRate),
		core.WithLogger(logger),
	}

	rec := metrics.New(metrics.WithConstLabels(map[string]string{"run_id": runID}))
	res := &Result{RunID: runID, Evoked: map[string]*erp.Evoked{}}

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: %s: %w", name, err)
		}
		start := time.Now()
		if err := fn(); err != nil {
			return fmt.Errorf("pipeline: %s: %w", name, err)
		}
		rec.ObserveStage(name, time.Since(start))
		return nil
	}

	err := stage(StageIngest, func() error {
		raw, events, err := ingest.Load(cfg.Input.Path, Layout(cfg.Input), ReadOptions(cfg.Input), opts...)
		if err != nil {
			return err
		}
		res.Raw, res.Events = raw, events
		rec.SetRecording(raw.NumChannels(), raw.NumSamples())
		counts := make(map[int]int)
		for _, ev := range events {
			counts[ev.Code]++
		}
		rec.SetEvents(counts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	params := FilterParams(cfg.Filter)
	err = stage(StageFilter, func() error {
		filtered, err := preprocess.Filter(res.Raw, params, opts...)
		res.Filtered = filtered
		return err
	})
	if err != nil {
		return nil, err
	}

	err = stage(StageEpochs, func() error {
		ep, err := epochs.Create(res.Filtered, res.Events, cfg.Epochs.EventID,
			cfg.Epochs.TMin, cfg.Epochs.TMax, EpochOptions(cfg.Epochs), opts...)
		if err != nil {
			return err
		}
		res.Epochs = ep
		for _, d := range ep.DropLog {
			rec.AddDrop(d.Reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	measure := func(ev *erp.Evoked) error {
		ms, err := ev.Measures(cfg.Measure.From, cfg.Measure.To)
		if errors.Is(err, erp.ErrEmptyWindow) {
			logger.Warn("measure window outside epoch", "label", ev.Label,
				"from", cfg.Measure.From, "to", cfg.Measure.To)
			return nil
		}
		if err != nil {
			return err
		}
		for _, m := range ms {
			rec.SetPeak(m.Condition, m.Channel, m.PeakAmplitude)
		}
		res.Measures = append(res.Measures, ms...)
		return nil
	}

	err = stage(StageAverage, func() error {
		for _, label := range res.Epochs.Labels() {
			n := res.Epochs.Count(label)
			rec.SetTrials(label, n)
			if n == 0 {
				logger.Warn("condition has no trials", "label", label)
				continue
			}
			ev, err := res.Epochs.Average(label)
			if err != nil {
				return err
			}
			res.Evoked[label] = ev
			if err := measure(ev); err != nil {
				return err
			}
		}

		target, nonTarget := res.Evoked[cfg.Plot.Target], res.Evoked[cfg.Plot.NonTarget]
		if target == nil || nonTarget == nil {
			return nil
		}
		diff, err := erp.Difference(target.Label+"-"+nonTarget.Label, target, nonTarget)
		if err != nil {
			return err
		}
		res.Difference = diff
		return measure(diff)
	})
	if err != nil {
		return nil, err
	}

	if cfg.Plot.Enabled {
		err = stage(StagePlot, func() error { return writePlots(cfg.Plot, res, logger) })
		if err != nil {
			return nil, err
		}
	}

	if cfg.Export.EDFPath != "" {
		err = stage(StageExport, func() error {
			err := export.SaveEDF(cfg.Export.EDFPath, res.Filtered, export.EDFOptions{
				RecordingID:  "Startdate X X run " + runID,
				Prefiltering: prefiltering(params),
			})
			if err != nil {
				return err
			}
			res.Files = append(res.Files, cfg.Export.EDFPath)
			logger.Info("edf written", "path", cfg.Export.EDFPath,
				"samples", humanize.Comma(int64(res.Filtered.NumSamples())))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		rec.MarkFinished(time.Now())
		if err := rec.WriteTextfile(path); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		res.Files = append(res.Files, path)
	}

	logger.Info("run complete",
		"trials", res.Epochs.Len(),
		"dropped", len(res.Epochs.DropLog),
		"conditions", len(res.Evoked),
		"files", len(res.Files),
	)
	return res, nil
}

// writePlots renders the per-channel comparison of the target and
// non-target conditions and the channel-mean overlay of all conditions.
func writePlots(c config.PlotConfig, res *Result, logger *slog.Logger) error {
	if len(res.Evoked) == 0 {
		logger.Warn("no evoked responses to plot")
		return nil
	}
	opts := PlotOptions(c)

	target, nonTarget := res.Evoked[c.Target], res.Evoked[c.NonTarget]
	if target != nil && nonTarget != nil {
		fig, err := viz.PlotChannels(target, nonTarget, opts)
		if err != nil {
			return err
		}
		path := filepath.Join(c.OutDir, "channels."+c.Format)
		if err := fig.Save(path); err != nil {
			return err
		}
		res.Files = append(res.Files, path)
	} else {
		logger.Warn("skipping channel plot", "target", c.Target, "non_target", c.NonTarget)
	}

	compareOpts := opts
	compareOpts.Width, compareOpts.Height = 0, 0
	fig, err := viz.PlotCompare(res.Evoked, compareOpts)
	if err != nil {
		return err
	}
	path := filepath.Join(c.OutDir, "compare."+c.Format)
	if err := fig.Save(path); err != nil {
		return err
	}
	res.Files = append(res.Files, path)

	logger.Info("plots written", "dir", c.OutDir, "format", c.Format)
	return nil
}
