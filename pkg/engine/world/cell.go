package world

import (
	"fmt"
	"math"
)

// DefaultResolution is the occupancy grid cell size in world units.
// Positions closer than this round to the same cell.
const DefaultResolution = 0.001

// GridCell is a position rounded to the occupancy grid.
type GridCell struct {
	X, Y, Z int64
}

// CellOf rounds a position to the grid at the given resolution.
// A non-positive resolution falls back to DefaultResolution.
func CellOf(p Vec3, resolution float64) GridCell {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return GridCell{
		X: int64(math.Round(p.X / resolution)),
		Y: int64(math.Round(p.Y / resolution)),
		Z: int64(math.Round(p.Z / resolution)),
	}
}

// Center returns the world position of the cell at the given resolution.
func (c GridCell) Center(resolution float64) Vec3 {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return Vec3{
		X: float64(c.X) * resolution,
		Y: float64(c.Y) * resolution,
		Z: float64(c.Z) * resolution,
	}
}

// String returns the cell as "x:y:z"
func (c GridCell) String() string {
	return fmt.Sprintf("%d:%d:%d", c.X, c.Y, c.Z)
}
