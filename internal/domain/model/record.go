// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ScoreRecord is one entity's resolved score for a single contest unit
// (a match, a margin poll, a playoff pick set).
type ScoreRecord struct {
	Key   string  // stable user identifier
	Label string  // display name; not part of identity
	Pick  string  // what the entity selected, for detailed views
	Score float64 // points awarded, >= 0
}

// UnitScore is an entity's contribution from one contest unit inside an
// aggregated row. Participated distinguishes "scored 0" from "did not vote".
type UnitScore struct {
	Score        float64
	Pick         string
	Participated bool
}

// AggregatedRow is one entity's totals across a fixed, ordered unit list.
// PerUnit is aligned index-for-index with that unit list.
type AggregatedRow struct {
	Key     string
	Label   string
	PerUnit []UnitScore
	Total   float64
}

// RankedRow is an AggregatedRow annotated with both rank disciplines.
type RankedRow struct {
	AggregatedRow

	// DenseRank has no gaps: tied totals share a rank and the next distinct
	// total gets the immediately following integer.
	DenseRank int
	// StandardRank is competition ranking: tied totals share the position of
	// the first row in the tie group, and the next distinct total skips ahead.
	StandardRank int
}

// RankPair holds both rank numbers captured for one entity.
type RankPair struct {
	Dense    int `json:"dense"`
	Standard int `json:"standard"`
}

// Snapshot is the persisted capture of rank assignments from one completed
// run. It is the only state carried between runs and is never mutated after
// creation.
type Snapshot struct {
	RunID   string              `json:"run_id"`
	TakenAt time.Time           `json:"taken_at"`
	Ranks   map[string]RankPair `json:"ranks"`
}

// NewSnapshot captures the rank assignments of a ranked board.
func NewSnapshot(rows []RankedRow) Snapshot {
	ranks := make(map[string]RankPair, len(rows))
	for _, r := range rows {
		ranks[r.Key] = RankPair{Dense: r.DenseRank, Standard: r.StandardRank}
	}
	return Snapshot{
		RunID:   uuid.NewString(),
		TakenAt: time.Now().UTC(),
		Ranks:   ranks,
	}
}

// Empty reports whether the snapshot carries no prior ranks, which is how a
// first-ever run (or an unreadable previous snapshot) presents itself.
func (s Snapshot) Empty() bool {
	return len(s.Ranks) == 0
}
