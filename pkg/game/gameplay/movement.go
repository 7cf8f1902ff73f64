// Package gameplay provides core game logic for player movement and interactions.
package gameplay

import (
	"time"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/renderer"
	"liminal/pkg/game/state"
)

// Walk moves the player along the XZ plane. forward and strafe are in steps;
// positive strafe goes to the player's right.
func Walk(g *state.Game, forward, strafe float64) {
	step := g.Tuning.WalkSpeed
	move := world.Forward(g.Player.Yaw).Scale(forward * step).
		Add(world.Forward(g.Player.Yaw + 90).Scale(strafe * step))
	g.Player.Position = g.Player.Position.Add(move)
}

// Turn rotates the player. Positive steps turn right.
func Turn(g *state.Game, steps float64) {
	g.Player.Yaw = world.NormalizeYaw(g.Player.Yaw + steps*g.Tuning.TurnSpeed)
}

// Step advances the run by dt seconds: the held door follows its pointer,
// every live door ticks its clock, then the room graph updates.
func Step(g *state.Game, dt float64) {
	g.Clock += dt
	g.Ticks++

	if g.Holding() {
		if d := g.Rooms.Door(g.HeldDoor); d != nil {
			d.DragUpdate(g.DragRay, dt)
		}
	}
	for _, d := range g.Rooms.Doors() {
		d.Tick(dt)
	}
	g.Rooms.Tick(g.Player.Position)

	// A lock or a destroyed room drops the hold
	if g.Holding() {
		if d := g.Rooms.Door(g.HeldDoor); d == nil || !d.Dragging() {
			g.HeldDoor = entities.NoDoor
		}
	}
}

// logMessage adds a formatted message to the game's message log
func logMessage(g *state.Game, msg string, a ...any) {
	formatted := renderer.ApplyMarkup(msg, a...)
	g.AddMessage(formatted)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
