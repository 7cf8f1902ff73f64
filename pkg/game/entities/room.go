package entities

import (
	"errors"
	"fmt"

	"liminal/pkg/engine/world"
)

// RoomID identifies a spawned room
type RoomID uint32

// NoRoom is the zero RoomID; no live room carries it.
const NoRoom RoomID = 0

// RoomKind is what a room is for in the progression
type RoomKind int

const (
	RoomStage   RoomKind = iota // Regular room that may hold an anomaly
	RoomHallway                 // Safe corridor inserted after a missed anomaly
	RoomEndgame                 // Terminal room once every stage is cleared
)

// String returns the kind name
func (k RoomKind) String() string {
	switch k {
	case RoomStage:
		return "Stage"
	case RoomHallway:
		return "Hallway"
	case RoomEndgame:
		return "Endgame"
	default:
		return "Unknown"
	}
}

// Room errors
var (
	ErrMissingEntry     = errors.New("room is missing its entry pivot")
	ErrNoDoors          = errors.New("room has no doors")
	ErrAnomalyAssigned  = errors.New("room anomaly already decided")
	ErrInvalidRoomShape = errors.New("room has no volume")
)

// RoomSpec is the authored shape of a room in its own local space.
// The floor spans X in [-HalfWidth, HalfWidth] and Z in [0, Depth];
// the entry sits on the Z = 0 wall.
type RoomSpec struct {
	Name      string
	Kind      RoomKind
	HalfWidth float64
	Depth     float64
	Height    float64
	Entry     *world.Pose
	Doors     []DoorFrame
}

// Room is a spawned play volume with its own doors.
//
// A stage room's anomaly is decided once, at creation. The judgment can be
// recorded once, and only before the room is completed.
type Room struct {
	id         RoomID
	name       string
	kind       RoomKind
	pose       world.Pose
	bounds     world.Box
	stageIndex uint32

	anomaly         *Anomaly
	anomalyAssigned bool

	solved       bool
	completed    bool
	disabled     bool
	playerInside bool

	doors        []*Door
	spawningDoor DoorID
	entry        *Door
}

// NewRoom builds a room from its spec at the given world pose. Door frames in
// the spec are local to the room; ids are drawn from nextDoorID.
func NewRoom(id RoomID, spec RoomSpec, pose world.Pose, stageIndex uint32, nextDoorID func() DoorID, settings DoorSettings) (*Room, error) {
	if spec.Entry == nil {
		return nil, fmt.Errorf("room %q: %w", spec.Name, ErrMissingEntry)
	}
	if spec.HalfWidth <= 0 || spec.Depth <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("room %q: %w", spec.Name, ErrInvalidRoomShape)
	}
	if len(spec.Doors) == 0 && spec.Kind != RoomEndgame {
		return nil, fmt.Errorf("room %q: %w", spec.Name, ErrNoDoors)
	}

	r := &Room{
		id:         id,
		name:       spec.Name,
		kind:       spec.Kind,
		pose:       pose,
		stageIndex: stageIndex,
		bounds: world.Box{
			Min: world.V(-spec.HalfWidth, 0, 0),
			Max: world.V(spec.HalfWidth, spec.Height, spec.Depth),
		},
	}

	for i, local := range spec.Doors {
		frame := DoorFrame{
			Hinge: pose.Compose(local.Hinge),
			Width: local.Width,
		}
		if local.Exit != nil {
			exit := pose.Compose(*local.Exit)
			frame.Exit = &exit
		}
		if local.Arch != nil {
			arch := pose.Compose(*local.Arch)
			frame.Arch = &arch
		}
		door, err := NewDoor(nextDoorID(), frame, settings)
		if err != nil {
			return nil, fmt.Errorf("room %q door %d: %w", spec.Name, i, err)
		}
		r.doors = append(r.doors, door)
	}
	return r, nil
}

// ID returns the room identifier
func (r *Room) ID() RoomID { return r.id }

// Name returns the template name the room was built from
func (r *Room) Name() string { return r.name }

// Kind returns the room kind
func (r *Room) Kind() RoomKind { return r.kind }

// Pose returns the world pose of the room origin (its entry point)
func (r *Room) Pose() world.Pose { return r.pose }

// Bounds returns the local-space volume of the room
func (r *Room) Bounds() world.Box { return r.bounds }

// StageIndex returns the stage the room was spawned for
func (r *Room) StageIndex() uint32 { return r.stageIndex }

// IsHallway reports whether this is a hallway room
func (r *Room) IsHallway() bool { return r.kind == RoomHallway }

// IsEndgame reports whether this is the terminal room
func (r *Room) IsEndgame() bool { return r.kind == RoomEndgame }

// HasAnomaly reports whether the room holds an anomaly
func (r *Room) HasAnomaly() bool { return r.anomaly != nil }

// Anomaly returns the anomaly descriptor, or nil
func (r *Room) Anomaly() *Anomaly { return r.anomaly }

// Solved reports whether the player's judgment was right
func (r *Room) Solved() bool { return r.solved }

// Completed reports whether the player has judged this room
func (r *Room) Completed() bool { return r.completed }

// Disabled reports whether the room's effects are switched off
func (r *Room) Disabled() bool { return r.disabled }

// PlayerInside reports the last containment result for the player
func (r *Room) PlayerInside() bool { return r.playerInside }

// Doors returns the room's own doors
func (r *Room) Doors() []*Door { return r.doors }

// SpawningDoor returns the door the room was entered through, or NoDoor
func (r *Room) SpawningDoor() DoorID { return r.spawningDoor }

// Entry returns the wall door inherited from the destroyed previous room, or nil
func (r *Room) Entry() *Door { return r.entry }

// AssignAnomaly decides the anomaly once. Hallway and endgame rooms stay clean
// whatever is passed.
func (r *Room) AssignAnomaly(a *Anomaly) error {
	if r.anomalyAssigned {
		return fmt.Errorf("room %d: %w", r.id, ErrAnomalyAssigned)
	}
	r.anomalyAssigned = true
	if r.kind != RoomStage {
		return nil
	}
	r.anomaly = a
	return nil
}

// SetSpawningDoor records the door the room was entered through
func (r *Room) SetSpawningDoor(id DoorID) { r.spawningDoor = id }

// Judge records the player's guess about the anomaly.
// Returns false without change once the room is completed.
func (r *Room) Judge(guessAnomaly bool) bool {
	if r.completed {
		return false
	}
	r.solved = guessAnomaly == r.HasAnomaly()
	r.completed = true
	return true
}

// Disable switches off the room's anomaly and interaction systems
func (r *Room) Disable() { r.disabled = true }

// Enable switches the room's systems back on after it is promoted again
func (r *Room) Enable() { r.disabled = false }

// SetPlayerInside records a containment result
func (r *Room) SetPlayerInside(inside bool) { r.playerInside = inside }

// AdoptEntry attaches a wall door from the destroyed previous room
func (r *Room) AdoptEntry(d *Door) { r.entry = d }

// HasDoor reports whether id is one of the room's own doors
func (r *Room) HasDoor(id DoorID) bool {
	return r.Door(id) != nil
}

// Door returns the room's own door with id, or nil
func (r *Room) Door(id DoorID) *Door {
	for _, d := range r.doors {
		if d.ID() == id {
			return d
		}
	}
	return nil
}

// AllDoors returns the room's doors plus its adopted entry door
func (r *Room) AllDoors() []*Door {
	if r.entry == nil {
		return r.doors
	}
	all := make([]*Door, 0, len(r.doors)+1)
	all = append(all, r.doors...)
	return append(all, r.entry)
}

// LockDoors locks every own door
func (r *Room) LockDoors() {
	for _, d := range r.doors {
		d.Lock()
	}
}

// UnlockDoors unlocks every own door
func (r *Room) UnlockDoors() {
	for _, d := range r.doors {
		d.Unlock()
	}
}

// Contains reports whether a world point is inside the room volume
func (r *Room) Contains(p world.Vec3) bool {
	return r.bounds.Contains(r.pose.InverseTransformPoint(p))
}

// Distance returns how far a world point is from the room volume
func (r *Room) Distance(p world.Vec3) float64 {
	return r.bounds.Distance(r.pose.InverseTransformPoint(p))
}
