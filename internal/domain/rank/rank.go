// Package rank assigns dense and standard (competition) ranks to aggregated
// rows ordered by total descending.
package rank

import (
	"sort"

	"github.com/maidenover/standings/internal/domain/model"
)

// Assign sorts rows by total descending and annotates each with both rank
// disciplines. Equal totals share a rank under both disciplines; output order
// among tied rows falls back to entity key ascending so runs are reproducible.
//
// Dense ranks form a contiguous 1..k over the k distinct totals. Standard
// ranks follow competition ranking: a tie group takes the position of its
// first row, and the next distinct total skips ahead by the group size.
//
// An empty input yields an empty output. The input slice is not mutated.
func Assign(rows []model.AggregatedRow) []model.RankedRow {
	if len(rows) == 0 {
		return nil
	}

	ordered := make([]model.AggregatedRow, len(rows))
	copy(ordered, rows)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Total != ordered[j].Total {
			return ordered[i].Total > ordered[j].Total
		}
		return ordered[i].Key < ordered[j].Key
	})

	ranked := make([]model.RankedRow, len(ordered))
	dense := 1
	standard := 1
	for i, row := range ordered {
		if i > 0 && row.Total < ordered[i-1].Total {
			dense++
			standard = i + 1
		}
		ranked[i] = model.RankedRow{
			AggregatedRow: row,
			DenseRank:     dense,
			StandardRank:  standard,
		}
	}
	return ranked
}
