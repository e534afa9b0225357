package atlas

import (
	"errors"
	"fmt"
)

var (
	// ErrCompleted is returned by every Builder method once Complete has run.
	ErrCompleted = errors.New("atlas: builder already completed")

	// ErrInvalidName is returned for tile names that are empty or would
	// resolve outside the tile directory.
	ErrInvalidName = errors.New("atlas: invalid tile name")

	// ErrInvalidUnitSize is returned by New for non-positive tile sizes.
	ErrInvalidUnitSize = errors.New("atlas: tile unit size must be positive")
)

// TileSizeError reports a tile whose dimensions break the uniform tile size
// of the atlas. For the height axis Expected is the frame height the source
// height must be a positive multiple of.
type TileSizeError struct {
	Tile     string
	Source   string
	Axis     string // "width" or "height"
	Expected int
	Actual   int
}

func (e *TileSizeError) Error() string {
	if e.Axis == "height" {
		return fmt.Sprintf("atlas: tile %q (%s): height %d is not a positive multiple of %d",
			e.Tile, e.Source, e.Actual, e.Expected)
	}
	return fmt.Sprintf("atlas: tile %q (%s): %s expected %d, found %d",
		e.Tile, e.Source, e.Axis, e.Expected, e.Actual)
}
