// Package movement classifies rank changes between two ranked snapshots of
// the same leaderboard lineage.
package movement

import (
	"fmt"

	"github.com/maidenover/standings/internal/domain/model"
)

// Kind enumerates the four movement states a sink must keep distinguishable.
type Kind int

const (
	// Unchanged means the entity holds the same rank as in the previous run.
	Unchanged Kind = iota
	// Improved means the entity moved toward rank 1.
	Improved
	// Worsened means the entity moved away from rank 1.
	Worsened
	// NewEntrant means the entity was absent from the previous snapshot.
	// Never equated with a delta of zero.
	NewEntrant
)

// Delta is a movement classification on one rank axis.
type Delta struct {
	Kind Kind
	// By is the magnitude of the change; zero for Unchanged and NewEntrant.
	By int
}

// String renders the delta the way the leaderboard sinks expect:
// up/down arrows with magnitude, an em dash for unchanged, N for new entrants.
func (d Delta) String() string {
	switch d.Kind {
	case Improved:
		return fmt.Sprintf("↑%d", d.By)
	case Worsened:
		return fmt.Sprintf("↓%d", d.By)
	case NewEntrant:
		return "N"
	default:
		return "—"
	}
}

// Record is one entity's movement on both rank axes.
type Record struct {
	Key      string
	Dense    Delta
	Standard Delta
}

// Compare classifies each current entity's rank change against the previous
// snapshot. Positive deltas mean improvement (previous minus current).
//
// The output set is exactly the current entity set, in current board order;
// entities present only in the previous snapshot are dropped silently. An
// empty previous snapshot marks every entity a new entrant. The computation
// is total: it cannot fail on well-formed inputs.
func Compare(prev model.Snapshot, current []model.RankedRow) []Record {
	records := make([]Record, len(current))
	for i, row := range current {
		pair, ok := prev.Ranks[row.Key]
		if !ok || pair.Dense < 1 || pair.Standard < 1 {
			// Rank 0 is not a valid prior rank; a snapshot carrying one is
			// treated the same as the entity being absent.
			records[i] = Record{
				Key:      row.Key,
				Dense:    Delta{Kind: NewEntrant},
				Standard: Delta{Kind: NewEntrant},
			}
			continue
		}
		records[i] = Record{
			Key:      row.Key,
			Dense:    classify(pair.Dense - row.DenseRank),
			Standard: classify(pair.Standard - row.StandardRank),
		}
	}
	return records
}

func classify(delta int) Delta {
	switch {
	case delta > 0:
		return Delta{Kind: Improved, By: delta}
	case delta < 0:
		return Delta{Kind: Worsened, By: -delta}
	default:
		return Delta{Kind: Unchanged}
	}
}
