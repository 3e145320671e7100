// Package aggregate merges per-unit score records into one total per entity.
package aggregate

import (
	"fmt"
	"math"

	"github.com/maidenover/standings/internal/domain/model"
)

// Unit is one scored contest unit: a match, a margin poll, a playoff pick
// set, or (for combined boards) a whole source leaderboard.
type Unit struct {
	ID      string
	Records []model.ScoreRecord
}

// Rows merges the units into one AggregatedRow per distinct entity key.
//
// An entity absent from a unit contributes 0 to that unit's column and is
// marked as not having participated, so sinks can render a placeholder
// instead of a zero. Output order is unspecified; ordering belongs to the
// ranker. The function is pure: it never mutates its inputs.
func Rows(units []Unit) ([]model.AggregatedRow, error) {
	if len(units) == 0 {
		return nil, ErrEmptyUnitList
	}

	index := make(map[string]int) // entity key -> position in rows
	rows := make([]model.AggregatedRow, 0)

	for ui, unit := range units {
		seen := make(map[string]struct{}, len(unit.Records))
		for _, rec := range unit.Records {
			if rec.Key == "" {
				return nil, fmt.Errorf("unit %q: %w", unit.ID, ErrEmptyEntityKey)
			}
			if _, dup := seen[rec.Key]; dup {
				return nil, &DuplicateEntityError{Unit: unit.ID, Key: rec.Key}
			}
			seen[rec.Key] = struct{}{}

			if rec.Score < 0 || math.IsNaN(rec.Score) || math.IsInf(rec.Score, 0) {
				return nil, &MalformedScoreError{Unit: unit.ID, Key: rec.Key, Score: rec.Score}
			}

			pos, ok := index[rec.Key]
			if !ok {
				pos = len(rows)
				index[rec.Key] = pos
				rows = append(rows, model.AggregatedRow{
					Key:     rec.Key,
					Label:   rec.Key,
					PerUnit: make([]model.UnitScore, len(units)),
				})
			}
			if rec.Label != "" {
				rows[pos].Label = rec.Label
			}
			rows[pos].PerUnit[ui] = model.UnitScore{
				Score:        rec.Score,
				Pick:         rec.Pick,
				Participated: true,
			}
			rows[pos].Total += rec.Score
		}
	}

	return rows, nil
}
