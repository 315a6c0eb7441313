// Command erp runs the P300 analysis of one recording: load, filter,
// epoch, average, plot and summarize.
//
// Usage:
//
//	erp [flags]
//
// Settings come from the YAML file given by -config, then from ERP_
// environment variables, then from flags.
//
// Examples:
//
//	erp -input session1.csv
//	erp -config p300.yaml -out figures
//	erp -input session1.parquet -method fir -low 0.5 -high 30 -notch 50
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/cwbudde/algo-erp/config"
	"github.com/cwbudde/algo-erp/erp"
	"github.com/cwbudde/algo-erp/internal/logging"
	"github.com/cwbudde/algo-erp/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("erp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	input := fs.String("input", "", "recording to analyse (csv, tsv, parquet, xlsx)")
	out := fs.String("out", "", "directory figures are written to")
	method := fs.String("method", "", "band filter: iir or fir")
	low := fs.Float64("low", 0, "high-pass cut-off in Hz (0 disables)")
	high := fs.Float64("high", 0, "low-pass cut-off in Hz (0 disables)")
	notch := fs.Float64("notch", 0, "notch frequency in Hz (0 disables)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: erp [flags]\n\n")
		fmt.Fprintf(stderr, "Averages Standard and Odd trials of an EEG recording and plots them.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  erp -input session1.csv\n")
		fmt.Fprintf(stderr, "  erp -config p300.yaml -out figures\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(ctx, *configPath, func(c *config.Config) {
		if set["input"] {
			c.Input.Path = *input
		}
		if set["out"] {
			c.Plot.OutDir = *out
		}
		if set["method"] {
			c.Filter.Method = *method
		}
		if set["low"] {
			c.Filter.LowHz = *low
		}
		if set["high"] {
			c.Filter.HighHz = *high
		}
		if set["notch"] {
			c.Filter.NotchHz = nil
			if *notch > 0 {
				c.Filter.NotchHz = []float64{*notch}
			}
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	ctx = logging.WithRunID(ctx, logging.NewRunID())
	logger.InfoContext(ctx, "starting analysis", "input", cfg.Input.Path, "method", cfg.Filter.Method)

	res, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "analysis failed", "error", err)
		return 1
	}

	if err := printMeasures(stdout, res.Measures); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	for _, f := range res.Files {
		fmt.Fprintf(stdout, "wrote %s\n", f)
	}
	return 0
}

func printMeasures(w io.Writer, ms []erp.Measure) error {
	if len(ms) == 0 {
		_, err := fmt.Fprintln(w, "no measures")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Condition\tChannel\tTrials\tPeak [µV]\tLatency [ms]\tMean [µV]\n")
	fmt.Fprintf(tw, "---------\t-------\t------\t---------\t------------\t---------\n")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t%.0f\t%.3f\n",
			m.Condition, m.Channel, m.NAve, m.PeakAmplitude, m.PeakLatency*1000, m.MeanAmplitude)
	}
	return tw.Flush()
}
