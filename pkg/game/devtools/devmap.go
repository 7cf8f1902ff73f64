// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"math"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/state"
)

// Floor plan symbols
const (
	symVoid     = ' '
	symWall     = '#'
	symCurrent  = '.'
	symPrevious = ','
	symDoor     = 'D'
	symOpen     = '/'
	symLocked   = '+'
	symPlayer   = '@'
)

// FloorPlan renders a north-up ASCII plan of the live rooms centred on the
// player. Each character covers scale metres across; rows cover twice that
// so the plan keeps its proportions in a terminal.
func FloorPlan(g *state.Game, cols, rows int, scale float64) []string {
	if cols <= 0 || rows <= 0 || scale <= 0 {
		return nil
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = symVoid
		}
	}

	centre := g.Player.Position
	toWorld := func(col, row int) world.Vec3 {
		x := centre.X + float64(col-cols/2)*scale
		z := centre.Z - float64(row-rows/2)*scale*2
		return world.V(x, centre.Y, z)
	}
	toCell := func(p world.Vec3) (int, int, bool) {
		col := int(math.Round((p.X-centre.X)/scale)) + cols/2
		row := int(math.Round((centre.Z-p.Z)/(scale*2))) + rows/2
		return col, row, col >= 0 && col < cols && row >= 0 && row < rows
	}

	// Previous first so the current room wins where they share a wall
	rooms := g.Rooms.LiveRooms()
	for i := len(rooms) - 1; i >= 0; i-- {
		r := rooms[i]
		fill := symCurrent
		if r != g.Rooms.Current() {
			fill = symPrevious
		}
		b := r.Bounds()
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				local := r.Pose().InverseTransformPoint(toWorld(col, row))
				if local.X < b.Min.X || local.X > b.Max.X || local.Z < b.Min.Z || local.Z > b.Max.Z {
					continue
				}
				edge := math.Min(math.Min(local.X-b.Min.X, b.Max.X-local.X), math.Min(local.Z-b.Min.Z, b.Max.Z-local.Z))
				if edge < scale {
					grid[row][col] = symWall
				} else {
					grid[row][col] = fill
				}
			}
		}
	}

	for _, d := range g.Rooms.Doors() {
		sym := doorSymbol(d)
		hinge, tip := d.Hinge().Position, d.LeafTip()
		steps := int(math.Ceil(d.Width()/(scale/2))) + 1
		for s := 0; s <= steps; s++ {
			p := hinge.Add(tip.Sub(hinge).Scale(float64(s) / float64(steps)))
			if col, row, ok := toCell(p); ok {
				grid[row][col] = sym
			}
		}
	}

	if col, row, ok := toCell(g.Player.Position); ok {
		grid[row][col] = symPlayer
	}

	lines := make([]string, rows)
	for i, r := range grid {
		lines[i] = string(r)
	}
	return lines
}

func doorSymbol(d *entities.Door) rune {
	switch {
	case d.Locked():
		return symLocked
	case d.State() == entities.DoorClosed:
		return symDoor
	default:
		return symOpen
	}
}
