// Package gameplay provides core game logic for player movement and interactions.
package gameplay

import (
	"math"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/state"
)

// leafGrabRadius is how far from the leaf a pointer may land and still grab it
const leafGrabRadius = 0.35

// NearestDoor returns the live door closest to the player within reach, or nil
func NearestDoor(g *state.Game) *entities.Door {
	var best *entities.Door
	bestDist := math.Inf(1)
	for _, d := range g.Rooms.Doors() {
		dist := flatDist(g.Player.Position, d.Center())
		if dist <= g.Tuning.Reach && dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// GrabNearest takes hold of the door nearest the player. The grab is reported
// to the room graph even when the door is locked. Returns whether a door was in reach.
func GrabNearest(g *state.Game) bool {
	d := NearestDoor(g)
	if d == nil {
		logMessage(g, "GT{NO_DOOR_IN_REACH}")
		return false
	}
	tip := d.LeafTip()
	grab(g, d, world.DownRay(tip.X, tip.Z))
	return true
}

// GrabAt takes hold of the door whose leaf lies under the pointer ray.
func GrabAt(g *state.Game, ray world.Ray) bool {
	if g.Holding() {
		return false
	}
	for _, d := range g.Rooms.Doors() {
		hit, ok := ray.IntersectHorizontal(d.Hinge().Position.Y)
		if !ok {
			continue
		}
		if segmentDist(hit, d.Hinge().Position, d.LeafTip()) > leafGrabRadius {
			continue
		}
		if flatDist(g.Player.Position, d.Center()) > g.Tuning.Reach {
			logMessage(g, "DENIED{GT{DOOR_TOO_FAR}}")
			return false
		}
		grab(g, d, ray)
		return true
	}
	return false
}

func grab(g *state.Game, d *entities.Door, ray world.Ray) {
	if !d.BeginDrag(ray) {
		if d.Locked() {
			logMessage(g, "LOCKED{GT{DOOR_LOCKED}}")
		}
		return
	}
	g.HeldDoor = d.ID()
	g.DragRay = ray
	g.PushAngle = d.SignedAngle()
}

// DragTo moves the pointer the held door follows
func DragTo(g *state.Game, ray world.Ray) {
	if g.Holding() {
		g.DragRay = ray
	}
}

// Push swings the held door by one keyboard step. dir is +1 or -1.
func Push(g *state.Game, dir float64) {
	d := g.Rooms.Door(g.HeldDoor)
	if d == nil {
		logMessage(g, "GT{NOT_HOLDING_DOOR}")
		return
	}
	limit := d.Settings().MaxAngle
	g.PushAngle = world.Clamp(g.PushAngle+dir*g.Tuning.PushStep, -limit, limit)

	hinge := d.Hinge()
	tip := hinge.Position.Add(world.Forward(hinge.Yaw + g.PushAngle).Scale(d.Width()))
	g.DragRay = world.DownRay(tip.X, tip.Z)
}

// Release lets go of the held door
func Release(g *state.Game) {
	if d := g.Rooms.Door(g.HeldDoor); d != nil {
		d.EndDrag()
	}
	g.HeldDoor = entities.NoDoor
}

// Judge records the player's verdict on the current room
func Judge(g *state.Game, guessAnomaly bool) bool {
	if !g.Rooms.JudgeCurrentRoom(guessAnomaly) {
		logMessage(g, "DENIED{GT{JUDGE_REFUSED}}")
		return false
	}
	g.Judgments++
	if guessAnomaly {
		logMessage(g, "ANOMALY{GT{JUDGED_ANOMALY}}")
	} else {
		logMessage(g, "GT{JUDGED_CLEAR}")
	}
	RefreshHints(g)
	return true
}

func flatDist(a, b world.Vec3) float64 {
	return a.Flat().Dist(b.Flat())
}

// segmentDist is the horizontal distance from p to the segment ab
func segmentDist(p, a, b world.Vec3) float64 {
	p, a, b = p.Flat(), a.Flat(), b.Flat()
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < world.Epsilon {
		return p.Dist(a)
	}
	t := world.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}
