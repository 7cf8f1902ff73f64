package world

import "sort"

// OccupancyGrid maps rounded positions to the single owner occupying them.
// The zero value is not usable; use NewOccupancyGrid.
type OccupancyGrid[T comparable] struct {
	resolution float64
	cells      map[GridCell]T
}

// NewOccupancyGrid creates an empty grid with the given cell size
func NewOccupancyGrid[T comparable](resolution float64) *OccupancyGrid[T] {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &OccupancyGrid[T]{
		resolution: resolution,
		cells:      make(map[GridCell]T),
	}
}

// Resolution returns the cell size of the grid
func (g *OccupancyGrid[T]) Resolution() float64 {
	return g.resolution
}

// CellAt rounds a world position to a grid cell
func (g *OccupancyGrid[T]) CellAt(p Vec3) GridCell {
	return CellOf(p, g.resolution)
}

// IsOccupied reports whether any owner holds the cell
func (g *OccupancyGrid[T]) IsOccupied(c GridCell) bool {
	_, ok := g.cells[c]
	return ok
}

// Owner returns the owner of a cell, if any
func (g *OccupancyGrid[T]) Owner(c GridCell) (T, bool) {
	owner, ok := g.cells[c]
	return owner, ok
}

// Occupy claims a cell for owner. Returns false if the cell is already held.
func (g *OccupancyGrid[T]) Occupy(c GridCell, owner T) bool {
	if g.IsOccupied(c) {
		return false
	}
	g.cells[c] = owner
	return true
}

// Free releases a cell. Returns false if the cell was not held.
func (g *OccupancyGrid[T]) Free(c GridCell) bool {
	if !g.IsOccupied(c) {
		return false
	}
	delete(g.cells, c)
	return true
}

// Size returns the number of occupied cells
func (g *OccupancyGrid[T]) Size() int {
	return len(g.cells)
}

// Clear releases every cell
func (g *OccupancyGrid[T]) Clear() {
	g.cells = make(map[GridCell]T)
}

// ForEachCell calls fn for every occupied cell in a stable order
func (g *OccupancyGrid[T]) ForEachCell(fn func(c GridCell, owner T)) {
	keys := make([]GridCell, 0, len(g.cells))
	for c := range g.cells {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	for _, c := range keys {
		fn(c, g.cells[c])
	}
}
