package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a recorder labelled with a run id", t, func() {
		r := New(WithConstLabels(map[string]string{"run_id": "abc"}))

		Convey("When a run is recorded", func() {
			r.SetRecording(4, 1000)
			r.SetEvents(map[int]int{1: 80, 2: 20})
			r.SetTrials("Odd", 19)
			r.AddDrop("NO_DATA")
			r.AddDrop("NO_DATA")
			r.ObserveStage("filter", 1500*time.Millisecond)
			r.SetPeak("Odd", "O1", 7.5)

			Convey("Then the values are exposed", func() {
				So(testutil.ToFloat64(r.samples), ShouldEqual, 1000)
				So(testutil.ToFloat64(r.channels), ShouldEqual, 4)
				So(testutil.ToFloat64(r.events.WithLabelValues("2")), ShouldEqual, 20)
				So(testutil.ToFloat64(r.trials.WithLabelValues("Odd")), ShouldEqual, 19)
				So(testutil.ToFloat64(r.drops.WithLabelValues("NO_DATA")), ShouldEqual, 2)
				So(testutil.ToFloat64(r.stageDuration.WithLabelValues("filter")), ShouldEqual, 1.5)
				So(testutil.ToFloat64(r.peakAmplitude.WithLabelValues("Odd", "O1")), ShouldEqual, 7.5)
			})

			Convey("Then the textfile holds namespaced metrics", func() {
				path := filepath.Join(t.TempDir(), "out", "erp.prom")
				So(r.WriteTextfile(path), ShouldBeNil)

				b, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `erp_trials{condition="Odd",run_id="abc"} 19`)
				So(string(b), ShouldContainSubstring, `erp_dropped_epochs_total{reason="NO_DATA",run_id="abc"} 2`)
			})
		})
	})

	Convey("Given a custom namespace", t, func() {
		r := New(WithNamespace("p300"))
		r.SetTrials("Standard", 3)

		Convey("Then metric names use it", func() {
			n, err := testutil.GatherAndCount(r.Registry(), "p300_trials")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}
