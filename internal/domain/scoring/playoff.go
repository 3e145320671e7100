package scoring

import (
	"fmt"
	"sort"
)

// qualifierCount is how many teams reach the playoffs.
const qualifierCount = 4

// PlayoffRule scores playoff prediction polls: fixed points per pick that
// appears in the qualified set. Picks use set semantics, so submitting the
// same team twice counts it once.
type PlayoffRule struct {
	qualified map[string]struct{}
	points    float64
}

// NewPlayoffRule builds a playoff rule from the qualified teams. Exactly four
// qualifiers are required.
func NewPlayoffRule(qualified []string, pointsPerPick float64) (PlayoffRule, error) {
	if pointsPerPick <= 0 {
		return PlayoffRule{}, ErrNonPositivePoints
	}
	set := make(map[string]struct{}, len(qualified))
	for _, team := range qualified {
		set[team] = struct{}{}
	}
	if len(set) != qualifierCount {
		return PlayoffRule{}, fmt.Errorf("%w: want %d, got %d", ErrQualifierCount, qualifierCount, len(set))
	}
	return PlayoffRule{qualified: set, points: pointsPerPick}, nil
}

// Score returns the points earned by the picks plus the sorted correct picks
// for detailed views. Duplicate picks collapse before intersection.
func (r PlayoffRule) Score(picks []string) (float64, []string) {
	seen := make(map[string]struct{}, len(picks))
	var correct []string
	for _, pick := range picks {
		if _, dup := seen[pick]; dup {
			continue
		}
		seen[pick] = struct{}{}
		if _, ok := r.qualified[pick]; ok {
			correct = append(correct, pick)
		}
	}
	sort.Strings(correct)
	return float64(len(correct)) * r.points, correct
}
