// Package scoring resolves raw poll selections into per-unit scores.
//
// Each poll type has a rule: winner polls award fixed match points for
// picking the winning team, margin polls award per-bucket points for picking
// the bucket the final margin falls into, and playoff polls award points per
// correctly predicted qualifier. The rules produce plain scores; aggregation
// and ranking never see the raw selections.
package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidMargin     = errors.New("invalid margin")
	ErrQualifierCount    = errors.New("qualified team count mismatch")
	ErrNoWinner          = errors.New("match winner not set")
	ErrNonPositivePoints = errors.New("points must be positive")
)

// WinnerRule scores a winner poll: full match points for picking the winning
// team, zero otherwise.
type WinnerRule struct {
	winner string
	points float64
}

// NewWinnerRule builds a winner rule for a decided match.
func NewWinnerRule(winner string, points float64) (WinnerRule, error) {
	if winner == "" {
		return WinnerRule{}, ErrNoWinner
	}
	if points <= 0 {
		return WinnerRule{}, ErrNonPositivePoints
	}
	return WinnerRule{winner: winner, points: points}, nil
}

// Winner returns the short name of the winning team.
func (r WinnerRule) Winner() string { return r.winner }

// Score awards the match points when pick matches the winner.
func (r WinnerRule) Score(pick string) float64 {
	if pick == r.winner {
		return r.points
	}
	return 0
}
