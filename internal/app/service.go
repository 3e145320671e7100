// Package service runs leaderboard generation: aggregation, ranking,
// movement tracking against the previous snapshot, and snapshot persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maidenover/standings/internal/adapters/snapshot"
	"github.com/maidenover/standings/internal/domain/aggregate"
	"github.com/maidenover/standings/internal/domain/model"
	"github.com/maidenover/standings/internal/domain/movement"
	"github.com/maidenover/standings/internal/domain/rank"
	"github.com/maidenover/standings/pkg/logger"
	"github.com/maidenover/standings/pkg/metrics"
)

// ErrEmptyScope means a run was configured without a scope identifier.
var ErrEmptyScope = errors.New("run scope must not be empty")

// Run is one leaderboard-generation request. It is an explicit value, never
// ambient state, so multiple runs can execute independently.
type Run struct {
	// Scope identifies the leaderboard lineage, e.g. "winner", "margin",
	// "combined". It keys the snapshot the run compares against.
	Scope string

	// Units is the fixed, ordered contest-unit list to aggregate.
	Units []aggregate.Unit

	// TrackMovement enables comparison against the previous snapshot and
	// persistence of the new one. Weekly boards leave it off; overall and
	// combined boards turn it on.
	TrackMovement bool
}

// Board is one generated leaderboard.
type Board struct {
	Scope   string
	UnitIDs []string
	Rows    []model.RankedRow

	// Movements is index-aligned with Rows; nil when the run did not track
	// movement.
	Movements []movement.Record

	// Snapshot is the capture persisted as the next run's baseline; zero
	// when the run did not track movement.
	Snapshot model.Snapshot
}

// TopN returns the first n rows of the board (the winners list). Rows are
// already ordered, so prefix extraction is enough.
func (b Board) TopN(n int) []model.RankedRow {
	if n > len(b.Rows) {
		n = len(b.Rows)
	}
	if n < 0 {
		n = 0
	}
	return b.Rows[:n]
}

// Service generates leaderboards. The engine itself is pure; the only state
// crossing run boundaries is the snapshot store.
type Service struct {
	snapshots snapshot.Store
	logger    logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSnapshotStore sets the snapshot store used for movement tracking.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.snapshots = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshots: snapshot.NewFileStore("results/ranks"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Generate runs one leaderboard generation pass to completion. Aggregation
// errors abort the run before any output exists; an absent or unreadable
// previous snapshot only degrades movement tracking, never the run.
func (s *Service) Generate(ctx context.Context, run Run) (Board, error) {
	if run.Scope == "" {
		return Board{}, ErrEmptyScope
	}

	start := time.Now()
	rows, err := aggregate.Rows(run.Units)
	if err != nil {
		metrics.RecordRunFailure(run.Scope)
		return Board{}, fmt.Errorf("scope %q: %w", run.Scope, err)
	}
	metrics.ObserveStage("aggregate", time.Since(start))

	start = time.Now()
	ranked := rank.Assign(rows)
	metrics.ObserveStage("rank", time.Since(start))
	metrics.ObserveBoardSize(len(ranked))
	metrics.RecordTieGroups(tieGroups(ranked))

	board := Board{
		Scope:   run.Scope,
		UnitIDs: unitIDs(run.Units),
		Rows:    ranked,
	}
	if !run.TrackMovement {
		metrics.RecordRun(run.Scope)
		return board, nil
	}

	prev := s.loadPrevious(ctx, run.Scope)
	board.Movements = movement.Compare(prev, ranked)
	metrics.RecordNewEntrants(newEntrants(board.Movements))

	board.Snapshot = model.NewSnapshot(ranked)
	if err := s.snapshots.Save(ctx, run.Scope, board.Snapshot); err != nil {
		metrics.RecordRunFailure(run.Scope)
		return Board{}, fmt.Errorf("scope %q: save snapshot: %w", run.Scope, err)
	}
	metrics.RecordSnapshotSave()
	metrics.RecordRun(run.Scope)

	s.logger.Info(ctx, "board generated",
		logger.String("scope", run.Scope),
		logger.Int("entities", len(ranked)),
		logger.Int("units", len(run.Units)),
	)
	return board, nil
}

// GenerateCombined merges independently generated source boards into one
// combined board: each source's totals become one contest unit's scores, and
// the result goes through the same ranking and movement path.
func (s *Service) GenerateCombined(ctx context.Context, scope string, sources ...Board) (Board, error) {
	units := make([]aggregate.Unit, len(sources))
	for i, src := range sources {
		unit := aggregate.Unit{
			ID:      src.Scope,
			Records: make([]model.ScoreRecord, len(src.Rows)),
		}
		for j, row := range src.Rows {
			unit.Records[j] = model.ScoreRecord{
				Key:   row.Key,
				Label: row.Label,
				Score: row.Total,
			}
		}
		units[i] = unit
	}
	return s.Generate(ctx, Run{Scope: scope, Units: units, TrackMovement: true})
}

// loadPrevious fetches the previous snapshot, degrading absent or unreadable
// baselines to "first ever run" so movement tracking never blocks ranking.
func (s *Service) loadPrevious(ctx context.Context, scope string) model.Snapshot {
	prev, err := s.snapshots.Load(ctx, scope)
	if err == nil {
		return prev
	}
	metrics.RecordSnapshotMiss()
	if errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Info(ctx, "no previous snapshot; all entities are new entrants",
			logger.String("scope", scope))
	} else {
		s.logger.Warn(ctx, "previous snapshot unreadable; proceeding without it",
			logger.String("scope", scope), logger.Error(err))
	}
	return model.Snapshot{}
}

func unitIDs(units []aggregate.Unit) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids
}

func tieGroups(rows []model.RankedRow) int {
	groups := 0
	for i := 1; i < len(rows); i++ {
		if rows[i].DenseRank == rows[i-1].DenseRank {
			if i == 1 || rows[i-1].DenseRank != rows[i-2].DenseRank {
				groups++
			}
		}
	}
	return groups
}

func newEntrants(moves []movement.Record) int {
	n := 0
	for _, m := range moves {
		if m.Dense.Kind == movement.NewEntrant {
			n++
		}
	}
	return n
}
