package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is outside [MinK, MaxK].
	ErrInvalidK = errors.New("k out of range")
	// ErrInvalidMaxIter is returned when max_iter is outside [1, MaxIterLimit].
	ErrInvalidMaxIter = errors.New("max_iter out of range")
	// ErrNoFeatures is returned when no feature column is selected.
	ErrNoFeatures = errors.New("no feature columns")
	// ErrEmptyDataset is returned for datasets without rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidInitialization is returned for unknown seeding modes.
	ErrInvalidInitialization = errors.New("invalid initialization")
)

// ErrInvalidColumn is returned when a feature column is out of range or
// selected twice.
type ErrInvalidColumn struct {
	Column    int
	NumCols   int
	Duplicate bool
}

func (e *ErrInvalidColumn) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("column %d selected more than once", e.Column)
	}
	return fmt.Sprintf("column %d out of range [0, %d)", e.Column, e.NumCols)
}

// ValidateColumns checks that cols are distinct indices below numCols.
func ValidateColumns(cols []int, numCols int) error {
	seen := make(map[int]struct{}, len(cols))
	for _, c := range cols {
		if c < 0 || c >= numCols {
			return &ErrInvalidColumn{Column: c, NumCols: numCols}
		}
		if _, ok := seen[c]; ok {
			return &ErrInvalidColumn{Column: c, NumCols: numCols, Duplicate: true}
		}
		seen[c] = struct{}{}
	}
	return nil
}
