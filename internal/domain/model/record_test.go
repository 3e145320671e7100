package model_test

import (
	"testing"

	"github.com/maidenover/standings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewSnapshot(t *testing.T) {
	Convey("Given a ranked board", t, func() {
		rows := []model.RankedRow{
			{AggregatedRow: model.AggregatedRow{Key: "alice"}, DenseRank: 1, StandardRank: 1},
			{AggregatedRow: model.AggregatedRow{Key: "bob"}, DenseRank: 1, StandardRank: 1},
			{AggregatedRow: model.AggregatedRow{Key: "carol"}, DenseRank: 2, StandardRank: 3},
		}

		Convey("When capturing a snapshot", func() {
			snap := model.NewSnapshot(rows)

			Convey("Then every entity's rank pair is captured", func() {
				So(snap.Ranks, ShouldHaveLength, 3)
				So(snap.Ranks["alice"], ShouldResemble, model.RankPair{Dense: 1, Standard: 1})
				So(snap.Ranks["carol"], ShouldResemble, model.RankPair{Dense: 2, Standard: 3})
			})

			Convey("And the snapshot is tagged with a run id and timestamp", func() {
				So(snap.RunID, ShouldNotBeEmpty)
				So(snap.TakenAt.IsZero(), ShouldBeFalse)
				So(snap.Empty(), ShouldBeFalse)
			})

			Convey("And two captures get distinct run ids", func() {
				So(model.NewSnapshot(rows).RunID, ShouldNotEqual, snap.RunID)
			})
		})
	})

	Convey("Given no rows", t, func() {
		snap := model.NewSnapshot(nil)

		Convey("Then the snapshot is empty but still tagged", func() {
			So(snap.Empty(), ShouldBeTrue)
			So(snap.RunID, ShouldNotBeEmpty)
		})
	})
}
