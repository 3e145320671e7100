package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maidenover/standings/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a fresh metrics manager", t, func() {
		m := metrics.NewManager()

		Convey("When recording run activity", func() {
			m.RecordRun("winner")
			m.RecordRun("winner")
			m.RecordRunFailure("margin")
			m.ObserveBoardSize(42)
			m.RecordTieGroups(3)
			m.RecordNewEntrants(7)
			m.RecordSnapshotSave()
			m.RecordSnapshotMiss()
			m.ObserveStage("rank", 5*time.Millisecond)

			Convey("Then the dump contains the recorded state", func() {
				path := filepath.Join(t.TempDir(), "run.prom")
				So(m.DumpFile(path), ShouldBeNil)

				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				out := string(data)
				So(out, ShouldContainSubstring, `standings_runs_total{scope="winner"} 2`)
				So(out, ShouldContainSubstring, `standings_run_failures_total{scope="margin"} 1`)
				So(out, ShouldContainSubstring, "standings_tie_groups_total 3")
				So(out, ShouldContainSubstring, "standings_new_entrants_total 7")
				So(out, ShouldContainSubstring, "standings_snapshot_saves_total 1")
				So(out, ShouldContainSubstring, "standings_snapshot_misses_total 1")
				So(out, ShouldContainSubstring, `standings_stage_duration_seconds_count{stage="rank"} 1`)
			})
		})

		Convey("When a custom namespace is configured", func() {
			m := metrics.NewManager(metrics.WithNamespace("polls"))
			m.RecordRun("combined")

			path := filepath.Join(t.TempDir(), "run.prom")
			So(m.DumpFile(path), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `polls_runs_total{scope="combined"} 1`)
		})
	})

	Convey("Given the package-level helpers", t, func() {
		Convey("Then they record against the global manager without panicking", func() {
			So(func() {
				metrics.RecordRun("winner")
				metrics.ObserveBoardSize(1)
				metrics.ObserveStage("aggregate", time.Millisecond)
			}, ShouldNotPanic)
		})
	})
}
