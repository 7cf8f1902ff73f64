// Package ebiten provides an Ebiten-based 2D top-down renderer for Liminal.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/gameplay"
	"liminal/pkg/game/state"
)

// camera maps the XZ plane to screen pixels, north up, centred on the player
type camera struct {
	centre world.Vec3
	cx, cy float64
	scale  float64
}

func (e *EbitenRenderer) camera(g *state.Game) camera {
	return camera{
		centre: g.Player.Position,
		cx:     float64(e.windowWidth) / 2,
		cy:     float64(e.windowHeight) / 2,
		scale:  e.zoom,
	}
}

// Screen returns the pixel position of a world point
func (c camera) Screen(p world.Vec3) (float32, float32) {
	x := c.cx + (p.X-c.centre.X)*c.scale
	y := c.cy - (p.Z-c.centre.Z)*c.scale
	return float32(x), float32(y)
}

// Ray returns the downward pointer ray under a pixel
func (c camera) Ray(sx, sy float64) world.Ray {
	x := c.centre.X + (sx-c.cx)/c.scale
	z := c.centre.Z - (sy-c.cy)/c.scale
	return world.DownRay(x, z)
}

// Draw renders the game to the screen (Ebiten interface)
func (e *EbitenRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g := e.game
	if g == nil || e.face == nil {
		return
	}
	cam := e.camera(g)

	// Previous room first so the current room's walls sit on top
	rooms := g.Rooms.LiveRooms()
	for i := len(rooms) - 1; i >= 0; i-- {
		e.drawRoom(screen, cam, g, rooms[i], rooms[i] == g.Rooms.Current())
	}
	for _, d := range g.Rooms.Doors() {
		e.drawDoor(screen, cam, d, d.ID() == g.HeldDoor)
	}
	e.drawPlayer(screen, cam, g)

	e.drawHeader(screen, g)
	e.drawMessages(screen, g)
}

// drawRoom outlines a room footprint and shades its floor by light level
func (e *EbitenRenderer) drawRoom(screen *ebiten.Image, cam camera, g *state.Game, r *entities.Room, current bool) {
	corners := r.Bounds().Corners()
	var pts [4][2]float32
	for i, c := range corners {
		pts[i][0], pts[i][1] = cam.Screen(r.Pose().TransformPoint(c))
	}

	floor := colorFloor
	if !current || gameplay.RoomLight(g, r) < 0.5 {
		floor = colorFloorDim
	}
	// A butt-capped stroke across the room covers the footprint exactly
	ax, ay := mid(pts[0], pts[1])
	bx, by := mid(pts[3], pts[2])
	width := float32(r.Bounds().Max.X-r.Bounds().Min.X) * float32(cam.scale)
	vector.StrokeLine(screen, ax, ay, bx, by, width, floor, false)

	wall := colorWall
	if !current {
		wall = colorWallDim
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 2, wall, true)
	}
}

// drawDoor draws the leaf from hinge to tip and marks the exit pivot
func (e *EbitenRenderer) drawDoor(screen *ebiten.Image, cam camera, d *entities.Door, held bool) {
	hx, hy := cam.Screen(d.Hinge().Position)
	tx, ty := cam.Screen(d.LeafTip())

	col := colorDoorClosed
	switch {
	case held:
		col = colorDoorHeld
	case d.Locked():
		col = colorDoorLocked
	case d.State() != entities.DoorClosed:
		col = colorDoorOpen
	}
	vector.StrokeLine(screen, hx, hy, tx, ty, 4, col, true)
	vector.DrawFilledCircle(screen, hx, hy, 3, col, true)

	px, py := cam.Screen(d.ExitPivot().Position)
	vector.DrawFilledCircle(screen, px, py, 2, colorPivot, true)
}

// drawPlayer draws the player with a short line showing the facing
func (e *EbitenRenderer) drawPlayer(screen *ebiten.Image, cam camera, g *state.Game) {
	x, y := cam.Screen(g.Player.Position)
	ahead := g.Player.Position.Add(world.Forward(g.Player.Yaw).Scale(0.5))
	fx, fy := cam.Screen(ahead)

	vector.DrawFilledCircle(screen, x, y, 6, colorPlayer, true)
	vector.StrokeLine(screen, x, y, fx, fy, 2, colorPlayer, true)

	reach := float32(g.Tuning.Reach * cam.scale)
	vector.StrokeCircle(screen, x, y, reach, 1, colorSubtle, true)
}

func mid(a, b [2]float32) (float32, float32) {
	return (a[0] + b[0]) / 2, (a[1] + b[1]) / 2
}
