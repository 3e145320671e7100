// Package csvsink renders ranked boards to CSV files.
package csvsink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/maidenover/standings/internal/domain/model"
	"github.com/maidenover/standings/internal/domain/movement"
)

// ErrRowMismatch means the movement records do not line up with the board.
var ErrRowMismatch = errors.New("movement records do not match board rows")

// noPick is the placeholder for units an entity did not participate in.
const noPick = "---"

// utf8BOM keeps the files readable by spreadsheet tools that sniff encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// formatPoints renders a total so it round-trips exactly through re-parsing.
func formatPoints(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteSummary writes one row per entity with ranks, movement, and total.
// moves may be nil for boards without movement tracking (e.g. weekly); when
// present it must be index-aligned with rows, as produced by movement.Compare.
func WriteSummary(w io.Writer, rows []model.RankedRow, moves []movement.Record) error {
	if moves != nil && len(moves) != len(rows) {
		return ErrRowMismatch
	}

	cw := csv.NewWriter(w)
	header := []string{"Dense Rank"}
	if moves != nil {
		header = append(header, "Dense Rank Movement")
	}
	header = append(header, "Standard Rank")
	if moves != nil {
		header = append(header, "Standard Rank Movement")
	}
	header = append(header, "Username", "Display Name", "Total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range rows {
		record := []string{strconv.Itoa(row.DenseRank)}
		if moves != nil {
			record = append(record, moves[i].Dense.String())
		}
		record = append(record, strconv.Itoa(row.StandardRank))
		if moves != nil {
			record = append(record, moves[i].Standard.String())
		}
		record = append(record, row.Key, row.Label, formatPoints(row.Total))
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailed writes the per-unit breakdown: each contest unit contributes
// a pick column and a points column, with placeholders for entities that did
// not participate in a unit.
func WriteDetailed(w io.Writer, unitIDs []string, rows []model.RankedRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Dense Rank", "Standard Rank", "Username", "Display Name"}
	for _, id := range unitIDs {
		header = append(header, id+" Pick", id+" Points")
	}
	header = append(header, "Total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		if len(row.PerUnit) != len(unitIDs) {
			return fmt.Errorf("%w: row %q has %d unit scores, want %d",
				ErrRowMismatch, row.Key, len(row.PerUnit), len(unitIDs))
		}
		record := []string{
			strconv.Itoa(row.DenseRank),
			strconv.Itoa(row.StandardRank),
			row.Key,
			row.Label,
		}
		for _, us := range row.PerUnit {
			pick := us.Pick
			if !us.Participated || pick == "" {
				pick = noPick
			}
			record = append(record, pick, formatPoints(us.Score))
		}
		record = append(record, formatPoints(row.Total))
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes a board file with a UTF-8 BOM via the given render func.
func WriteFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
