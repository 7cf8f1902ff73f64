// Package stage defines the room templates the room graph spawns from: the
// ordered stage rooms, the hallway inserted after a missed anomaly, and the
// endgame room. The player never sees the stage count; they discover the end
// by reaching the endgame room.
package stage

import (
	"errors"
	"fmt"

	"github.com/leonelquinteros/gotext"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
)

// MinStages is the fewest stage templates a playable catalog may hold.
const MinStages = 5

// DefaultWallThickness is the distance between a door's inner and outer pivots.
const DefaultWallThickness = 0.2

// Catalog errors
var (
	ErrTooFewStages = errors.New("catalog has too few stage templates")
	ErrBadTemplate  = errors.New("invalid room template")
)

// DoorSpec places a door on one wall of a template. Offset is measured along
// the wall from its midpoint. The entry sits on the South wall, so doors may
// only use North, East or West.
type DoorSpec struct {
	Wall   world.Direction
	Offset float64
	Width  float64
}

// Template is the authored shape of one kind of room.
type Template struct {
	Name      string
	Kind      entities.RoomKind
	HalfWidth float64
	Depth     float64
	Height    float64
	Doors     []DoorSpec
}

// Catalog holds every template the room graph can spawn.
type Catalog struct {
	Stages        []Template
	Hallway       Template
	Endgame       Template
	WallThickness float64
}

// LastStage returns the index of the final stage template.
func (c *Catalog) LastStage() uint32 {
	if len(c.Stages) == 0 {
		return 0
	}
	return uint32(len(c.Stages) - 1)
}

// Select picks the template for the next spawn. Hallway wins over endgame;
// stage indices past the end clamp to the last stage.
func (c *Catalog) Select(stageIndex uint32, hallway, endgame bool) Template {
	switch {
	case hallway:
		return c.Hallway
	case endgame:
		return c.Endgame
	}
	if stageIndex > c.LastStage() {
		stageIndex = c.LastStage()
	}
	return c.Stages[stageIndex]
}

// Validate checks the catalog for authoring defects.
func (c *Catalog) Validate() error {
	if len(c.Stages) < MinStages {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewStages, len(c.Stages), MinStages)
	}
	if c.WallThickness < 0 {
		return fmt.Errorf("%w: negative wall thickness", ErrBadTemplate)
	}
	for i, t := range c.Stages {
		if t.Kind != entities.RoomStage {
			return fmt.Errorf("%w: stage %d %q has kind %v", ErrBadTemplate, i, t.Name, t.Kind)
		}
		if err := t.validate(); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	if c.Hallway.Kind != entities.RoomHallway {
		return fmt.Errorf("%w: hallway %q has kind %v", ErrBadTemplate, c.Hallway.Name, c.Hallway.Kind)
	}
	if err := c.Hallway.validate(); err != nil {
		return fmt.Errorf("hallway: %w", err)
	}
	if c.Endgame.Kind != entities.RoomEndgame {
		return fmt.Errorf("%w: endgame %q has kind %v", ErrBadTemplate, c.Endgame.Name, c.Endgame.Kind)
	}
	if err := c.Endgame.validate(); err != nil {
		return fmt.Errorf("endgame: %w", err)
	}
	return nil
}

func (t Template) validate() error {
	if t.HalfWidth <= 0 || t.Depth <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: %q has no volume", ErrBadTemplate, t.Name)
	}
	if len(t.Doors) == 0 && t.Kind != entities.RoomEndgame {
		return fmt.Errorf("%q: %w", t.Name, entities.ErrNoDoors)
	}
	for i, d := range t.Doors {
		if d.Wall == world.South || !d.Wall.IsValid() {
			return fmt.Errorf("%w: %q door %d on %v wall", ErrBadTemplate, t.Name, i, d.Wall)
		}
		if d.Width <= 0 {
			return fmt.Errorf("%w: %q door %d has width %v", ErrBadTemplate, t.Name, i, d.Width)
		}
		half := t.HalfWidth
		if d.Wall != world.North {
			half = t.Depth / 2
		}
		if abs(d.Offset)+d.Width/2 > half {
			return fmt.Errorf("%w: %q door %d runs off the %v wall", ErrBadTemplate, t.Name, i, d.Wall)
		}
	}
	return nil
}

// RoomSpec lays the template out in room-local space. The entry pivot sits at
// the origin facing +Z; each door gets an outer exit pivot facing back into
// the room and an inner arch pivot facing out.
func (t Template) RoomSpec(wallThickness float64) entities.RoomSpec {
	entry := world.Pose{}
	spec := entities.RoomSpec{
		Name:      t.Name,
		Kind:      t.Kind,
		HalfWidth: t.HalfWidth,
		Depth:     t.Depth,
		Height:    t.Height,
		Entry:     &entry,
	}
	for _, d := range t.Doors {
		spec.Doors = append(spec.Doors, t.frame(d, wallThickness))
	}
	return spec
}

func (t Template) frame(d DoorSpec, wallThickness float64) entities.DoorFrame {
	out := d.Wall.Yaw()
	normal := world.Forward(out)
	tangent := world.Forward(out + 90)

	var mid world.Vec3
	switch d.Wall {
	case world.East:
		mid = world.V(t.HalfWidth, 0, t.Depth/2)
	case world.West:
		mid = world.V(-t.HalfWidth, 0, t.Depth/2)
	default:
		mid = world.V(0, 0, t.Depth)
	}
	opening := mid.Add(tangent.Scale(d.Offset))

	exit := world.Pose{Position: opening.Add(normal.Scale(wallThickness / 2)), Yaw: world.NormalizeYaw(out + 180)}
	arch := world.Pose{Position: opening.Sub(normal.Scale(wallThickness / 2)), Yaw: out}
	return entities.DoorFrame{
		Hinge: world.Pose{Position: opening.Sub(tangent.Scale(d.Width / 2)), Yaw: world.NormalizeYaw(out + 90)},
		Width: d.Width,
		Exit:  &exit,
		Arch:  &arch,
	}
}

// FlavourKey returns the gettext message key for the line shown on entering a
// room of the given kind and stage. Later stages use more unsettling lines.
func FlavourKey(kind entities.RoomKind, stageIndex uint32) string {
	switch kind {
	case entities.RoomHallway:
		return "ROOM_FLAVOUR_HALLWAY"
	case entities.RoomEndgame:
		return "ROOM_FLAVOUR_ENDGAME"
	}
	switch {
	case stageIndex == 0:
		return "ROOM_FLAVOUR_FAMILIAR"
	case stageIndex <= 2:
		return "ROOM_FLAVOUR_QUIET"
	default:
		return "ROOM_FLAVOUR_WRONG"
	}
}

// FlavourText returns the translated entry line for a room. Uses gotext.Get
// with constant keys to satisfy vet.
func FlavourText(kind entities.RoomKind, stageIndex uint32) string {
	switch FlavourKey(kind, stageIndex) {
	case "ROOM_FLAVOUR_HALLWAY":
		return gotext.Get("ROOM_FLAVOUR_HALLWAY")
	case "ROOM_FLAVOUR_ENDGAME":
		return gotext.Get("ROOM_FLAVOUR_ENDGAME")
	case "ROOM_FLAVOUR_QUIET":
		return gotext.Get("ROOM_FLAVOUR_QUIET")
	case "ROOM_FLAVOUR_WRONG":
		return gotext.Get("ROOM_FLAVOUR_WRONG")
	default:
		return gotext.Get("ROOM_FLAVOUR_FAMILIAR")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
