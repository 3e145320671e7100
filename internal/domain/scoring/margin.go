package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MarginUnit identifies how a match was won.
type MarginUnit string

// Margin units as they appear in poll result files.
const (
	ByRuns      MarginUnit = "runs"
	ByWickets   MarginUnit = "wickets"
	BySuperOver MarginUnit = "super_over"
)

// Margin is a decided match's victory margin.
type Margin struct {
	Value int
	Unit  MarginUnit
}

var marginRe = regexp.MustCompile(`^(\d+)\s*(runs?|wickets?)$`)

// ParseMargin parses strings like "14 runs", "3 wickets", or "Super Over".
func ParseMargin(s string) (Margin, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "super over" {
		return Margin{Unit: BySuperOver}, nil
	}
	m := marginRe.FindStringSubmatch(norm)
	if m == nil {
		return Margin{}, fmt.Errorf("%w: %q", ErrInvalidMargin, s)
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return Margin{}, fmt.Errorf("%w: %q", ErrInvalidMargin, s)
	}
	unit := ByRuns
	if strings.HasPrefix(m[2], "wicket") {
		unit = ByWickets
	}
	return Margin{Value: value, Unit: unit}, nil
}

// Bucket is one margin poll answer: a run range, a wicket range, a super-over
// option, or any combination offered as a single answer
// ("Win by 11-20 runs OR by 9-10 wickets").
type Bucket struct {
	RunMin    int
	RunMax    int // 0 means open-ended when RunMin > 0
	WicketMin int
	WicketMax int // 0 means open-ended when WicketMin > 0
	SuperOver bool
	Label     string // abbreviated form for detailed views, e.g. "11-20R"
}

var (
	runRangeRe    = regexp.MustCompile(`(\d+)(?:-(\d+)|(\+))?\s*runs?`)
	wicketRangeRe = regexp.MustCompile(`(\d+)(?:-(\d+)|(\+))?\s*wickets?`)
)

// ParseBucket extracts the ranges from a margin poll answer name. The margin
// unit of the decided match picks which side of a combined answer names the
// bucket's label.
func ParseBucket(answer string, unit MarginUnit) Bucket {
	norm := strings.ToLower(answer)
	b := Bucket{SuperOver: strings.Contains(norm, "super over"), Label: answer}

	if m := runRangeRe.FindStringSubmatch(norm); m != nil {
		b.RunMin, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			b.RunMax, _ = strconv.Atoi(m[2])
		}
		if unit == ByRuns {
			b.Label = rangeLabel(b.RunMin, b.RunMax, m[3] == "+", "R")
		}
	}
	if m := wicketRangeRe.FindStringSubmatch(norm); m != nil {
		b.WicketMin, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			b.WicketMax, _ = strconv.Atoi(m[2])
		}
		if unit == ByWickets {
			b.Label = rangeLabel(b.WicketMin, b.WicketMax, m[3] == "+", "W")
		}
	}
	if b.SuperOver && unit == BySuperOver {
		b.Label = "SO"
	}
	return b
}

func rangeLabel(minVal, maxVal int, open bool, suffix string) string {
	switch {
	case maxVal > 0:
		return fmt.Sprintf("%d-%d%s", minVal, maxVal, suffix)
	case open:
		return fmt.Sprintf("%d+%s", minVal, suffix)
	default:
		return fmt.Sprintf("%d%s", minVal, suffix)
	}
}

// Contains reports whether the margin falls inside the bucket.
func (b Bucket) Contains(m Margin) bool {
	switch m.Unit {
	case BySuperOver:
		return b.SuperOver
	case ByRuns:
		if b.RunMin == 0 {
			return false
		}
		return m.Value >= b.RunMin && (b.RunMax == 0 || m.Value <= b.RunMax)
	case ByWickets:
		if b.WicketMin == 0 {
			return false
		}
		return m.Value >= b.WicketMin && (b.WicketMax == 0 || m.Value <= b.WicketMax)
	default:
		return false
	}
}

// MarginRule scores a margin poll: per-bucket points when the picked bucket
// contains the decided margin.
type MarginRule struct {
	outcome Margin
	points  float64
}

// NewMarginRule builds a margin rule for a decided match.
func NewMarginRule(outcome Margin, points float64) (MarginRule, error) {
	if points <= 0 {
		return MarginRule{}, ErrNonPositivePoints
	}
	if outcome.Unit != ByRuns && outcome.Unit != ByWickets && outcome.Unit != BySuperOver {
		return MarginRule{}, fmt.Errorf("%w: unit %q", ErrInvalidMargin, outcome.Unit)
	}
	return MarginRule{outcome: outcome, points: points}, nil
}

// Outcome returns the decided margin the rule scores against.
func (r MarginRule) Outcome() Margin { return r.outcome }

// Score awards the bucket points when pick contains the decided margin.
func (r MarginRule) Score(pick Bucket) float64 {
	if pick.Contains(r.outcome) {
		return r.points
	}
	return 0
}
