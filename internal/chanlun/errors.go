package chanlun

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when an instrument has too short a history
// to analyze. Callers skip the instrument; it is not a contract violation.
var ErrInsufficientData = errors.New("insufficient bar history")

// DataShapeError indicates a malformed bar from the data provider, e.g. a
// missing or inverted price field. Distinct from ErrInsufficientData because
// it means the collaborator broke its contract.
type DataShapeError struct {
	Index  int
	Reason string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("malformed bar at index %d: %s", e.Index, e.Reason)
}
