package world

import "strings"

// Direction is a room wall, named by the heading that faces out through it.
// North faces +Z (yaw 0), East faces +X (yaw 90).
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"North", "East", "South", "West"}

// AllDirections returns the four walls in clockwise order from North
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

func (d Direction) String() string {
	if !d.IsValid() {
		return "Unknown"
	}
	return directionNames[d]
}

// ParseDirection accepts a wall name or its first letter, in any case.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return North, false
	}
	for i, name := range directionNames {
		name = strings.ToLower(name)
		if s == name || s == name[:1] {
			return Direction(i), true
		}
	}
	return North, false
}

// IsValid reports whether d is one of the four walls
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// Yaw is the outward heading of the wall in degrees; clockwise steps of 90.
func (d Direction) Yaw() float64 {
	if !d.IsValid() {
		return 0
	}
	return float64(d) * 90
}

// Delta returns the outward unit X and Z offsets of the wall
func (d Direction) Delta() (dx, dz float64) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}
