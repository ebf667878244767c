package kmpar

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmpar/internal/kmeans"
)

var (
	// ErrInvalidK is returned when k is outside [2, 100000].
	ErrInvalidK = errors.New("invalid k")
	// ErrInvalidMaxIter is returned when max_iter is outside [1, 100000].
	ErrInvalidMaxIter = errors.New("invalid max_iter")
	// ErrInvalidInitialization is returned for unknown seeding modes.
	ErrInvalidInitialization = errors.New("invalid initialization")
	// ErrNoFeatures is returned when the dataset has no feature columns.
	ErrNoFeatures = errors.New("no feature columns")
	// ErrEmptyDataset is returned when the dataset has no rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrModelNotTrained is returned by Assign for models without a
	// finished Lloyd iteration.
	ErrModelNotTrained = errors.New("model has no finished iteration")
)

// ErrInvalidColumn indicates a feature column that is out of range or
// selected twice.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidColumn struct {
	Column    int
	NumCols   int
	Duplicate bool
	cause     error
}

func (e *ErrInvalidColumn) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("invalid column: %d selected twice", e.Column)
	}
	return fmt.Sprintf("invalid column: %d (dataset has %d)", e.Column, e.NumCols)
}

func (e *ErrInvalidColumn) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a dataset whose width differs from the
// model's.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ic *kmeans.ErrInvalidColumn
	if errors.As(err, &ic) {
		return &ErrInvalidColumn{Column: ic.Column, NumCols: ic.NumCols, Duplicate: ic.Duplicate, cause: err}
	}

	switch {
	case errors.Is(err, kmeans.ErrInvalidK):
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	case errors.Is(err, kmeans.ErrInvalidMaxIter):
		return fmt.Errorf("%w: %w", ErrInvalidMaxIter, err)
	case errors.Is(err, kmeans.ErrInvalidInitialization):
		return fmt.Errorf("%w: %w", ErrInvalidInitialization, err)
	case errors.Is(err, kmeans.ErrNoFeatures):
		return fmt.Errorf("%w: %w", ErrNoFeatures, err)
	case errors.Is(err, kmeans.ErrEmptyDataset):
		return fmt.Errorf("%w: %w", ErrEmptyDataset, err)
	}

	return err
}
