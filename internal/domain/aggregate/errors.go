package aggregate

import (
	"errors"
	"fmt"
)

// Sentinel kinds for aggregation errors. Callers match with errors.Is.
var (
	ErrEmptyUnitList   = errors.New("no contest units to aggregate")
	ErrMalformedScore  = errors.New("malformed score")
	ErrDuplicateEntity = errors.New("duplicate entity in unit")
	ErrEmptyEntityKey  = errors.New("empty entity key")
)

// MalformedScoreError carries enough context to locate the bad input.
type MalformedScoreError struct {
	Unit  string
	Key   string
	Score float64
}

func (e *MalformedScoreError) Error() string {
	return fmt.Sprintf("unit %q: entity %q: malformed score %v", e.Unit, e.Key, e.Score)
}

func (e *MalformedScoreError) Unwrap() error { return ErrMalformedScore }

// DuplicateEntityError reports the same entity key appearing twice within one
// contest unit. Aggregation rejects this rather than silently double-counting.
type DuplicateEntityError struct {
	Unit string
	Key  string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("unit %q: entity %q appears more than once", e.Unit, e.Key)
}

func (e *DuplicateEntityError) Unwrap() error { return ErrDuplicateEntity }
