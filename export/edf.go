// Package export writes recordings to interchange formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenPSG/edf"

	"github.com/cwbudde/algo-erp/eeg"
)

// ErrUnsupported is returned for a recording the target format cannot hold.
var ErrUnsupported = errors.New("export: recording not representable")

// maxRecordBytes is the largest data record the EDF writer accepts.
const maxRecordBytes = 61440

// EDFOptions annotate an EDF export.
type EDFOptions struct {
	PatientID   string
	RecordingID string
	StartTime   time.Time
	// Prefiltering is stored in every signal header, e.g. "HP:1Hz LP:40Hz".
	Prefiltering string
}

// WriteEDF writes raw as EDF with one-second data records. The recording
// is zero-padded to a whole number of records. Signals are stored in µV,
// each scaled to its own range.
func WriteEDF(w io.WriteSeeker, raw *eeg.Raw, o EDFOptions) error {
	spr := int(math.Round(raw.SampleRate))
	if math.Abs(float64(spr)-raw.SampleRate) > 1e-9 || spr < 1 {
		return fmt.Errorf("%w: sample rate %g Hz is not a whole number", ErrUnsupported, raw.SampleRate)
	}
	if raw.NumChannels() == 0 {
		return fmt.Errorf("%w: no channels", ErrUnsupported)
	}
	if spr*raw.NumChannels()*2 > maxRecordBytes {
		return fmt.Errorf("%w: %d channels at %d Hz exceed the EDF record size", ErrUnsupported, raw.NumChannels(), spr)
	}

	start := o.StartTime
	if start.IsZero() {
		start = time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	signals := make([]edf.Signal, raw.NumChannels())
	for i, ch := range raw.Channels {
		pmin, pmax := physicalRange(raw.Data[i])
		signals[i] = edf.Signal{
			Label:             label(ch),
			TransducerType:    "AgAgCl electrode",
			PhysicalDimension: "uV",
			PhysicalMin:       pmin,
			PhysicalMax:       pmax,
			DigitalMin:        math.MinInt16,
			DigitalMax:        math.MaxInt16,
			Prefiltering:      o.Prefiltering,
			SamplesPerRecord:  spr,
		}
	}

	ew, err := edf.Create(w, edf.Header{
		Version:            edf.Version0,
		PatientID:          orDefault(o.PatientID, "X X X X"),
		RecordingID:        orDefault(o.RecordingID, "Startdate X X X X"),
		StartTime:          start,
		DataRecordDuration: time.Second,
		SignalCount:        len(signals),
		Signals:            signals,
	})
	if err != nil {
		return fmt.Errorf("export: create edf: %w", err)
	}

	n := raw.NumSamples()
	record := make([][]float64, raw.NumChannels())
	for c := range record {
		record[c] = make([]float64, spr)
	}
	for off := 0; off < n; off += spr {
		for c, x := range raw.Data {
			m := copy(record[c], x[off:min(off+spr, n)])
			clear(record[c][m:])
		}
		if err := ew.WriteRecord(record); err != nil {
			return fmt.Errorf("export: record %d: %w", off/spr, err)
		}
	}

	if err := ew.Close(); err != nil {
		return fmt.Errorf("export: finalize edf: %w", err)
	}
	return nil
}

// SaveEDF writes raw to a new EDF file at path.
func SaveEDF(path string, raw *eeg.Raw, o EDFOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteEDF(f, raw, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// physicalRange returns whole-µV bounds covering x and the zero padding.
// The header stores them as 8-character text, so they must be exact.
func physicalRange(x []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)
	if hi == lo {
		hi++
	}
	return lo, hi
}

func label(ch eeg.Channel) string {
	if ch.Kind == eeg.KindEEG {
		return "EEG " + ch.Name
	}
	return ch.Name
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
