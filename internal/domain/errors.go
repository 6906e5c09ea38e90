package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCoordinates is returned when a file lacks XLAT or XLONG.
	ErrMissingCoordinates = errors.New("missing coordinate variables")

	// ErrEmptySelection is returned when a bounding box selects no grid cells.
	ErrEmptySelection = errors.New("bounding box selects no grid cells")

	// ErrShapeMismatch is returned when coordinate and field dimensions disagree.
	ErrShapeMismatch = errors.New("field and coordinate shapes differ")

	// ErrInsufficientData is returned when a regression has fewer than three samples.
	ErrInsufficientData = errors.New("at least three joined samples are required")

	// ErrZeroVariance is returned when the regression predictor is constant.
	ErrZeroVariance = errors.New("regression predictor has zero variance")
)

// FormatError reports a file name that does not encode a start time as
// prefix_YYYY-MM-DD_HH(.ext).
type FormatError struct {
	Name string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("file name %q does not match prefix_YYYY-MM-DD_HH(.ext): %v", e.Name, e.Err)
	}
	return fmt.Sprintf("file name %q does not match prefix_YYYY-MM-DD_HH(.ext)", e.Name)
}

func (e *FormatError) Unwrap() error { return e.Err }

// SkipReason classifies why a file contributed no rows.
type SkipReason string

const (
	SkipNone               SkipReason = ""
	SkipMissingCoordinates SkipReason = "missing_coordinates"
	SkipBadFileName        SkipReason = "bad_filename"
	SkipEmptySelection     SkipReason = "empty_selection"
	SkipShapeMismatch      SkipReason = "shape_mismatch"
	SkipReadError          SkipReason = "read_error"
	SkipCancelled          SkipReason = "cancelled"
)

// ClassifySkip maps a per-file error to its skip reason.
func ClassifySkip(err error) SkipReason {
	var fe *FormatError
	switch {
	case err == nil:
		return SkipNone
	case errors.As(err, &fe):
		return SkipBadFileName
	case errors.Is(err, ErrMissingCoordinates):
		return SkipMissingCoordinates
	case errors.Is(err, ErrEmptySelection):
		return SkipEmptySelection
	case errors.Is(err, ErrShapeMismatch):
		return SkipShapeMismatch
	default:
		return SkipReadError
	}
}
