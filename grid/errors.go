package grid

import "errors"

var (
	// ErrEmptyGrid indicates a non-positive width or height.
	ErrEmptyGrid = errors.New("grid: width and height must be ≥ 1")
	// ErrLabelsShape indicates a labels slice whose shape differs from the grid.
	ErrLabelsShape = errors.New("grid: labels shape does not match grid")
)
