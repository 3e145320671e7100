package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/maidenover/standings/internal/adapters/snapshot"
	service "github.com/maidenover/standings/internal/app"
	"github.com/maidenover/standings/internal/domain/aggregate"
	"github.com/maidenover/standings/internal/domain/model"
	"github.com/maidenover/standings/internal/domain/movement"
	"github.com/maidenover/standings/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func unit(id string, pairs ...any) aggregate.Unit {
	u := aggregate.Unit{ID: id}
	for i := 0; i < len(pairs); i += 2 {
		u.Records = append(u.Records, model.ScoreRecord{
			Key:   pairs[i].(string),
			Score: pairs[i+1].(float64),
		})
	}
	return u
}

func newService(t *testing.T) *service.Service {
	t.Helper()
	return service.New(
		service.WithSnapshotStore(snapshot.NewFileStore(t.TempDir())),
	)
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a run over two contest units", t, func() {
		svc := newService(t)
		run := service.Run{
			Scope: "winner",
			Units: []aggregate.Unit{
				unit("match1", "alice", 5.0, "bob", 3.0),
				unit("match2", "alice", 0.0, "bob", 3.0),
			},
			TrackMovement: true,
		}

		Convey("When generating the first board ever", func() {
			board, err := svc.Generate(ctx, run)
			So(err, ShouldBeNil)

			Convey("Then rows are ranked by total descending", func() {
				So(board.Rows, ShouldHaveLength, 2)
				So(board.Rows[0].Key, ShouldEqual, "bob")
				So(board.Rows[0].Total, ShouldEqual, 6.0)
				So(board.Rows[0].DenseRank, ShouldEqual, 1)
				So(board.Rows[1].Key, ShouldEqual, "alice")
				So(board.Rows[1].DenseRank, ShouldEqual, 2)
			})

			Convey("And every entity is a new entrant", func() {
				So(board.Movements, ShouldHaveLength, 2)
				for _, m := range board.Movements {
					So(m.Dense.Kind, ShouldEqual, movement.NewEntrant)
				}
			})

			Convey("And the unit IDs are carried for detailed sinks", func() {
				So(board.UnitIDs, ShouldResemble, []string{"match1", "match2"})
			})
		})

		Convey("When a second run swaps the standings", func() {
			_, err := svc.Generate(ctx, run)
			So(err, ShouldBeNil)

			next := service.Run{
				Scope:         "winner",
				Units:         []aggregate.Unit{unit("match3", "alice", 9.0, "bob", 1.0)},
				TrackMovement: true,
			}
			board, err := svc.Generate(ctx, next)
			So(err, ShouldBeNil)

			Convey("Then movement reflects the previous snapshot", func() {
				So(board.Rows[0].Key, ShouldEqual, "alice")
				So(board.Movements[0].Dense, ShouldResemble, movement.Delta{Kind: movement.Improved, By: 1})
				So(board.Movements[1].Key, ShouldEqual, "bob")
				So(board.Movements[1].Dense, ShouldResemble, movement.Delta{Kind: movement.Worsened, By: 1})
			})
		})

		Convey("When the run does not track movement", func() {
			run.TrackMovement = false
			board, err := svc.Generate(ctx, run)
			So(err, ShouldBeNil)

			Convey("Then no movement or snapshot is produced", func() {
				So(board.Movements, ShouldBeNil)
				So(board.Snapshot.Empty(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a run with bad input", t, func() {
		svc := newService(t)

		Convey("When the unit list is empty", func() {
			_, err := svc.Generate(ctx, service.Run{Scope: "winner"})
			So(err, ShouldWrap, aggregate.ErrEmptyUnitList)
		})

		Convey("When the scope is empty", func() {
			_, err := svc.Generate(ctx, service.Run{Units: []aggregate.Unit{unit("m1")}})
			So(err, ShouldWrap, service.ErrEmptyScope)
		})

		Convey("When a unit holds a duplicate entity", func() {
			store := snapshot.NewFileStore(t.TempDir())
			svc := service.New(service.WithSnapshotStore(store))

			good := service.Run{
				Scope:         "winner",
				Units:         []aggregate.Unit{unit("m1", "alice", 1.0)},
				TrackMovement: true,
			}
			_, err := svc.Generate(ctx, good)
			So(err, ShouldBeNil)
			before, err := store.Load(ctx, "winner")
			So(err, ShouldBeNil)

			bad := service.Run{
				Scope: "winner",
				Units: []aggregate.Unit{{ID: "m2", Records: []model.ScoreRecord{
					{Key: "alice", Score: 1.0},
					{Key: "alice", Score: 2.0},
				}}},
				TrackMovement: true,
			}
			_, err = svc.Generate(ctx, bad)

			Convey("Then the run fails and the previous snapshot stays untouched", func() {
				So(err, ShouldWrap, aggregate.ErrDuplicateEntity)
				after, loadErr := store.Load(ctx, "winner")
				So(loadErr, ShouldBeNil)
				So(after.RunID, ShouldEqual, before.RunID)
			})
		})
	})

	Convey("Given a corrupt previous snapshot", t, func() {
		dir := t.TempDir()
		store := snapshot.NewFileStore(dir)
		svc := service.New(service.WithSnapshotStore(store))
		So(writeCorrupt(dir, "winner"), ShouldBeNil)

		Convey("When generating", func() {
			board, err := svc.Generate(ctx, service.Run{
				Scope:         "winner",
				Units:         []aggregate.Unit{unit("m1", "alice", 1.0)},
				TrackMovement: true,
			})

			Convey("Then the run succeeds with all entities as new entrants", func() {
				So(err, ShouldBeNil)
				So(board.Movements[0].Dense.Kind, ShouldEqual, movement.NewEntrant)
			})
		})
	})
}

func writeCorrupt(dir, scope string) error {
	return os.WriteFile(filepath.Join(dir, scope+".json"), []byte("{not json"), 0o644)
}

func TestService_GenerateCombined(t *testing.T) {
	ctx := context.Background()

	Convey("Given winner and margin boards for the same entity set", t, func() {
		svc := newService(t)

		winner, err := svc.Generate(ctx, service.Run{
			Scope: "winner",
			Units: []aggregate.Unit{unit("m1", "alice", 5.0, "bob", 2.0)},
		})
		So(err, ShouldBeNil)
		margin, err := svc.Generate(ctx, service.Run{
			Scope: "margin",
			Units: []aggregate.Unit{unit("m1", "alice", 1.5, "carol", 3.0)},
		})
		So(err, ShouldBeNil)

		Convey("When combining", func() {
			combined, err := svc.GenerateCombined(ctx, "combined", winner, margin)
			So(err, ShouldBeNil)

			byKey := make(map[string]model.RankedRow)
			for _, r := range combined.Rows {
				byKey[r.Key] = r
			}

			Convey("Then combined totals are the arithmetic sums of the source totals", func() {
				So(byKey["alice"].Total, ShouldEqual, 6.5)
			})

			Convey("And entities present in only one source count the other as zero", func() {
				So(byKey["bob"].Total, ShouldEqual, 2.0)
				So(byKey["carol"].Total, ShouldEqual, 3.0)
			})

			Convey("And the combined board is ranked and movement-tracked", func() {
				So(combined.Rows[0].Key, ShouldEqual, "alice")
				So(combined.Rows[0].DenseRank, ShouldEqual, 1)
				So(combined.Movements, ShouldHaveLength, 3)
			})
		})
	})
}

func TestBoard_TopN(t *testing.T) {
	Convey("Given a ranked board of three entities", t, func() {
		svc := newService(t)
		board, err := svc.Generate(context.Background(), service.Run{
			Scope: "winner",
			Units: []aggregate.Unit{unit("m1", "alice", 3.0, "bob", 2.0, "carol", 1.0)},
		})
		So(err, ShouldBeNil)

		Convey("Then TopN returns the leading rows in order", func() {
			top := board.TopN(2)
			So(top, ShouldHaveLength, 2)
			So(top[0].Key, ShouldEqual, "alice")
			So(top[1].Key, ShouldEqual, "bob")
		})

		Convey("And TopN is clamped to the board size", func() {
			So(board.TopN(10), ShouldHaveLength, 3)
			So(board.TopN(-1), ShouldBeEmpty)
		})
	})
}
