// Package roomgraph owns the live rooms of a run. At most two rooms exist at
// once: the current room and the previous room the player came from. The
// manager spawns rooms behind doors, destroys the previous room once its door
// shuts behind the player, and decides which template comes next.
//
// All state is mutated on the tick goroutine. Doors never touch the graph
// directly; they report events which the manager queues and drains in Tick.
package roomgraph

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
	"liminal/pkg/game/stage"
	"liminal/pkg/logger"
)

// DefaultOverlapRadius is how close a spawn point may come to a live room
// other than the current one.
const DefaultOverlapRadius = 2.0

// DefaultAnomalyChance is the probability that a stage room holds an anomaly.
const DefaultAnomalyChance = 0.5

// ErrInvariant is wrapped by every CheckInvariants failure.
var ErrInvariant = errors.New("room graph invariant violated")

// Probe answers spatial containment for the player.
type Probe interface {
	IsPointInsideRoom(room *entities.Room, point world.Vec3) bool
}

// BoxProbe tests the point against the room's oriented bounds.
type BoxProbe struct{}

// IsPointInsideRoom implements Probe
func (BoxProbe) IsPointInsideRoom(room *entities.Room, point world.Vec3) bool {
	return room.Contains(point)
}

// Observer is told about rooms appearing and disappearing, after the
// transaction that caused it has completed.
type Observer interface {
	RoomSpawned(room *entities.Room)
	RoomDestroyed(room *entities.Room)
}

// Option configures a Manager
type Option func(*Manager)

// WithProbe replaces the containment probe
func WithProbe(p Probe) Option {
	return func(m *Manager) { m.probe = p }
}

// WithRoller replaces the anomaly roller
func WithRoller(r entities.AnomalyRoller) Option {
	return func(m *Manager) { m.roller = r }
}

// WithRand seeds the default anomaly roller
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithAnomalyChance sets the default roller's anomaly probability
func WithAnomalyChance(chance float64) Option {
	return func(m *Manager) { m.chance = chance }
}

// WithGridResolution sets the occupancy rounding step
func WithGridResolution(res float64) Option {
	return func(m *Manager) { m.resolution = res }
}

// WithOverlapRadius sets the spawn collision probe radius
func WithOverlapRadius(r float64) Option {
	return func(m *Manager) { m.overlapRadius = r }
}

// WithDoorSettings sets the tuning of every door spawned
func WithDoorSettings(s entities.DoorSettings) Option {
	return func(m *Manager) { m.doorSettings = s }
}

// WithObserver registers a spawn/destroy observer
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// Manager is the room graph of one run.
type Manager struct {
	catalog       *stage.Catalog
	probe         Probe
	roller        entities.AnomalyRoller
	rng           *rand.Rand
	chance        float64
	resolution    float64
	overlapRadius float64
	doorSettings  entities.DoorSettings
	observer      Observer

	current              *entities.Room
	previous             *entities.Room
	previousSpawningDoor entities.DoorID

	occupied    *world.OccupancyGrid[entities.RoomID]
	cells       map[entities.RoomID]world.GridCell
	spawnedFrom mapset.Set[entities.DoorID]
	doors       map[entities.DoorID]*entities.Door
	events      *queue.Queue[entities.DoorEvent]

	stage           uint32
	stage0Completed bool
	endgameReached  bool

	nextRoomID entities.RoomID
	nextDoorID entities.DoorID
}

// New creates an empty room graph over a validated catalog.
func New(catalog *stage.Catalog, opts ...Option) (*Manager, error) {
	if catalog == nil {
		return nil, fmt.Errorf("roomgraph: nil catalog")
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("roomgraph: %w", err)
	}

	m := &Manager{
		catalog:       catalog,
		probe:         BoxProbe{},
		chance:        DefaultAnomalyChance,
		resolution:    world.DefaultResolution,
		overlapRadius: DefaultOverlapRadius,
		doorSettings:  entities.DefaultDoorSettings(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.doorSettings.Validate(); err != nil {
		return nil, fmt.Errorf("roomgraph: %w", err)
	}
	if m.roller == nil {
		if m.rng == nil {
			m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		m.roller = entities.NewRandomRoller(m.chance, m.rng)
	}
	m.Reset()
	return m, nil
}

// Reset drops every room and returns the graph to its initial state.
func (m *Manager) Reset() {
	m.current = nil
	m.previous = nil
	m.previousSpawningDoor = entities.NoDoor
	m.occupied = world.NewOccupancyGrid[entities.RoomID](m.resolution)
	m.cells = make(map[entities.RoomID]world.GridCell)
	m.spawnedFrom = mapset.New[entities.DoorID]()
	m.doors = make(map[entities.DoorID]*entities.Door)
	m.events = queue.New[entities.DoorEvent]()
	m.stage = 0
	m.stage0Completed = false
	m.endgameReached = false
}

// Start spawns the first room with its entry at pose.
func (m *Manager) Start(pose world.Pose) error {
	if m.current != nil {
		return fmt.Errorf("roomgraph: run already started")
	}
	if m.SpawnRoom(nil, pose, false, false) == nil {
		return fmt.Errorf("roomgraph: failed to spawn first room")
	}
	return nil
}

// SpawnRoom creates a room at the current stage. With a source door, pose is
// that door's exit pivot and the room is turned to face away from it; without
// one, the room's entry is placed on pose directly. Returns nil when the spawn
// is rejected.
func (m *Manager) SpawnRoom(source *entities.Door, pose world.Pose, hallway, endgame bool) *entities.Room {
	return m.spawn(source, pose, m.stage, hallway, endgame)
}

func (m *Manager) spawn(source *entities.Door, pose world.Pose, stageIndex uint32, hallway, endgame bool) *entities.Room {
	cell := m.occupied.CellAt(pose.Position)
	if owner, taken := m.occupied.Owner(cell); taken {
		logger.Warning("spawn rejected: cell occupied", "cell", cell.String(), "owner", owner)
		return nil
	}
	if m.previous != nil {
		logger.Warning("spawn rejected: previous room still alive", "previous", m.previous.ID())
		return nil
	}
	// Past the guard above only current is live unless a destroy left a room behind
	if r := m.overlapping(pose.Position); r != nil {
		logger.Warning("spawn rejected: overlaps live room", "cell", cell.String(), "room", r.ID())
		return nil
	}

	if hallway {
		stageIndex = 0
	}
	tpl := m.catalog.Select(stageIndex, hallway, endgame)
	spec := tpl.RoomSpec(m.catalog.WallThickness)

	target := pose
	if source != nil {
		target = pose.Reversed()
	}
	m.nextRoomID++
	room, err := entities.NewRoom(m.nextRoomID, spec, world.Align(*spec.Entry, target), stageIndex, m.allocDoorID, m.doorSettings)
	if err != nil {
		logger.Error("spawn failed", "template", tpl.Name, "error", err)
		return nil
	}

	var anomaly *entities.Anomaly
	if tpl.Kind == entities.RoomStage {
		anomaly = m.roller.Roll(stageIndex)
	}
	if err := room.AssignAnomaly(anomaly); err != nil {
		logger.Error("spawn failed", "template", tpl.Name, "error", err)
		return nil
	}

	sourceID := entities.NoDoor
	if source != nil {
		sourceID = source.ID()
		room.SetSpawningDoor(sourceID)
	}

	m.occupied.Occupy(cell, room.ID())
	m.cells[room.ID()] = cell
	for _, d := range room.Doors() {
		d.SetListener(m)
		m.doors[d.ID()] = d
	}

	m.previous = m.current
	m.current = room
	m.previousSpawningDoor = sourceID
	m.stage = stageIndex
	if endgame && !hallway {
		m.endgameReached = true
	}

	if m.previous != nil {
		m.current.LockDoors()
		m.previous.Disable()
	}
	m.assignRoles()

	logger.Info("room spawned",
		"room", room.ID(), "template", tpl.Name, "kind", tpl.Kind.String(),
		"stage", stageIndex, "anomaly", room.HasAnomaly(), "cell", cell.String())
	if m.observer != nil {
		m.observer.RoomSpawned(room)
	}
	return room
}

// overlapping returns a live room other than current within the overlap radius of p.
func (m *Manager) overlapping(p world.Vec3) *entities.Room {
	for _, r := range m.LiveRooms() {
		if r == m.current {
			continue
		}
		if r.Distance(p) <= m.overlapRadius {
			return r
		}
	}
	return nil
}

// DestroyPreviousRoomIfReady removes the previous room once the player stands
// in the current room and the door between them is shut. The shared wall door
// moves to the current room as its sealed entry. Returns whether a room was
// destroyed.
func (m *Manager) DestroyPreviousRoomIfReady() bool {
	if m.previous == nil || m.current == nil || !m.current.PlayerInside() {
		return false
	}
	door := m.doors[m.previousSpawningDoor]
	if door == nil || door.State() != entities.DoorClosed {
		return false
	}
	prev := m.previous

	// Wall first: the door survives its room.
	if old := m.current.Entry(); old != nil {
		delete(m.doors, old.ID())
	}
	door.SwapPivots()
	door.Lock()
	m.current.AdoptEntry(door)

	m.freeCell(prev)

	for _, d := range prev.AllDoors() {
		m.spawnedFrom.Remove(d.ID())
		if d != door {
			delete(m.doors, d.ID())
		}
	}
	m.spawnedFrom.Remove(m.previousSpawningDoor)

	m.previous = nil
	m.previousSpawningDoor = entities.NoDoor
	m.current.UnlockDoors()
	m.assignRoles()

	logger.Info("room destroyed", "room", prev.ID(), "current", m.current.ID())
	if m.observer != nil {
		m.observer.RoomDestroyed(prev)
	}
	return true
}

// OnDoorInteracted handles the player taking hold of a door.
func (m *Manager) OnDoorInteracted(id entities.DoorID) {
	if m.spawnedFrom.Has(id) {
		logger.Debug("door interaction ignored: already spawned", "door", id)
		return
	}
	door := m.doors[id]
	if door == nil {
		logger.Debug("door interaction ignored: not live", "door", id)
		return
	}

	if m.previous != nil && m.previous.HasDoor(id) {
		if door.Locked() {
			return
		}
		m.reenterPrevious(door)
		return
	}

	if m.current == nil || !m.current.HasDoor(id) {
		logger.Debug("door interaction ignored: not a current room door", "door", id)
		return
	}
	if door.Locked() || m.previous != nil {
		return
	}

	left := m.current
	outcome := Decide(left.IsHallway(), left.HasAnomaly(), left.Completed(), left.Solved())
	next, hallway, endgame := Next(outcome, m.stage, m.catalog.LastStage())
	logger.Debug("forward transition", "door", id, "outcome", outcome.String(), "stage", next)

	if m.spawn(door, door.ExitPivot(), next, hallway, endgame) == nil {
		return
	}
	m.spawnedFrom.Put(id)
	if !left.IsHallway() && left.StageIndex() == 0 {
		m.stage0Completed = true
	}
}

// reenterPrevious is the backward transition: the current room is dropped,
// the previous room takes its place, and a fresh room is spawned beyond door.
// Abandoning the endgame room spawns the endgame again, so the endgame flag
// always has a live endgame room behind it.
func (m *Manager) reenterPrevious(door *entities.Door) {
	endgame := m.current != nil && m.current.IsEndgame()
	if cur := m.current; cur != nil {
		m.freeCell(cur)
		for _, d := range cur.AllDoors() {
			m.spawnedFrom.Remove(d.ID())
			delete(m.doors, d.ID())
		}
		m.spawnedFrom.Remove(m.previousSpawningDoor)
		if m.observer != nil {
			defer m.observer.RoomDestroyed(cur)
		}
		logger.Info("room abandoned", "room", cur.ID())
	}
	if old := m.doors[m.previousSpawningDoor]; old != nil {
		old.ForceClose()
	}

	m.current = m.previous
	m.previous = nil
	m.previousSpawningDoor = entities.NoDoor
	m.current.Enable()
	m.current.UnlockDoors()
	m.assignRoles()

	if m.spawn(door, door.ExitPivot(), m.stage, false, endgame) != nil {
		m.spawnedFrom.Put(door.ID())
	}
}

// JudgeCurrentRoom records the player's verdict on the current room.
// Returns false when the verdict is not accepted.
func (m *Manager) JudgeCurrentRoom(guessAnomaly bool) bool {
	r := m.current
	if r == nil {
		return false
	}
	switch {
	case r.Completed(), r.IsHallway(), r.IsEndgame():
		return false
	case r.StageIndex() == 0 && m.stage0Completed:
		return false
	}
	r.Judge(guessAnomaly)
	logger.Info("room judged", "room", r.ID(), "guess", guessAnomaly, "solved", r.Solved())
	return true
}

// Tick runs one graph update: containment, then the destroy check, then any
// door events queued since the last tick.
func (m *Manager) Tick(player world.Vec3) {
	for _, r := range m.LiveRooms() {
		r.SetPlayerInside(m.probe.IsPointInsideRoom(r, player))
	}
	m.DestroyPreviousRoomIfReady()

	for !m.events.Empty() {
		ev := m.events.Dequeue()
		switch ev.Kind {
		case entities.EventGrabbed:
			m.OnDoorInteracted(ev.Door)
		default:
			logger.Debug("door event", "door", ev.Door, "kind", ev.Kind.String())
		}
	}
}

// Notify implements entities.DoorListener
func (m *Manager) Notify(ev entities.DoorEvent) {
	m.events.Enqueue(ev)
}

func (m *Manager) allocDoorID() entities.DoorID {
	m.nextDoorID++
	return m.nextDoorID
}

func (m *Manager) freeCell(r *entities.Room) {
	if cell, ok := m.cells[r.ID()]; ok {
		m.occupied.Free(cell)
		delete(m.cells, r.ID())
	}
}

// assignRoles tags every live door with what it means to the graph.
func (m *Manager) assignRoles() {
	if m.current != nil {
		for _, d := range m.current.Doors() {
			d.SetRole(entities.DoorRole{Kind: entities.RoleForward, Owner: m.current.ID()})
		}
		if e := m.current.Entry(); e != nil {
			e.SetRole(entities.DoorRole{Kind: entities.RoleEntry, Owner: m.current.ID()})
		}
	}
	if m.previous != nil {
		for _, d := range m.previous.Doors() {
			d.SetRole(entities.DoorRole{Kind: entities.RoleBackward, Owner: m.previous.ID()})
		}
		if e := m.previous.Entry(); e != nil {
			e.SetRole(entities.DoorRole{Kind: entities.RoleEntry, Owner: m.previous.ID()})
		}
	}
}

// Current returns the room the player is meant to be in, or nil before Start
func (m *Manager) Current() *entities.Room { return m.current }

// Previous returns the room the player came from, or nil
func (m *Manager) Previous() *entities.Room { return m.previous }

// PreviousSpawningDoor returns the door between previous and current, or NoDoor
func (m *Manager) PreviousSpawningDoor() entities.DoorID { return m.previousSpawningDoor }

// CurrentStage returns the active stage index
func (m *Manager) CurrentStage() uint32 { return m.stage }

// IsEndgameReached reports whether the endgame room has been spawned
func (m *Manager) IsEndgameReached() bool { return m.endgameReached }

// Stage0Completed reports whether a stage-0 room has been left through a forward door
func (m *Manager) Stage0Completed() bool { return m.stage0Completed }

// SpawnedFrom reports whether a door has already spawned a room
func (m *Manager) SpawnedFrom(id entities.DoorID) bool { return m.spawnedFrom.Has(id) }

// Occupied returns the number of occupied grid cells
func (m *Manager) Occupied() int { return m.occupied.Size() }

// Catalog returns the template catalog the graph spawns from
func (m *Manager) Catalog() *stage.Catalog { return m.catalog }

// LiveRooms returns current then previous, skipping absent rooms
func (m *Manager) LiveRooms() []*entities.Room {
	rooms := make([]*entities.Room, 0, 2)
	if m.current != nil {
		rooms = append(rooms, m.current)
	}
	if m.previous != nil {
		rooms = append(rooms, m.previous)
	}
	return rooms
}

// Door returns a live door by id, or nil
func (m *Manager) Door(id entities.DoorID) *entities.Door { return m.doors[id] }

// Doors returns every live door ordered by id
func (m *Manager) Doors() []*entities.Door {
	doors := make([]*entities.Door, 0, len(m.doors))
	for _, d := range m.doors {
		doors = append(doors, d)
	}
	sort.Slice(doors, func(i, j int) bool { return doors[i].ID() < doors[j].ID() })
	return doors
}

// OwnerOf returns the live room holding a door, or nil
func (m *Manager) OwnerOf(id entities.DoorID) *entities.Room {
	for _, r := range m.LiveRooms() {
		for _, d := range r.AllDoors() {
			if d.ID() == id {
				return r
			}
		}
	}
	return nil
}

// CheckInvariants verifies the structural guarantees of the graph.
func (m *Manager) CheckInvariants() error {
	if m.previous != nil && m.current == nil {
		return fmt.Errorf("%w: previous room without a current room", ErrInvariant)
	}
	live := m.LiveRooms()
	if m.occupied.Size() != len(live) {
		return fmt.Errorf("%w: %d occupied cells for %d live rooms", ErrInvariant, m.occupied.Size(), len(live))
	}

	var err error
	m.occupied.ForEachCell(func(c world.GridCell, owner entities.RoomID) {
		if err != nil {
			return
		}
		if got, ok := m.cells[owner]; !ok || got != c {
			err = fmt.Errorf("%w: cell %s owned by room %d which is not live there", ErrInvariant, c, owner)
		}
	})
	if err != nil {
		return err
	}
	for _, r := range live {
		if _, ok := m.cells[r.ID()]; !ok {
			return fmt.Errorf("%w: live room %d holds no cell", ErrInvariant, r.ID())
		}
	}

	count := 0
	for _, r := range live {
		for _, d := range r.AllDoors() {
			if m.doors[d.ID()] != d {
				return fmt.Errorf("%w: door %d of room %d is not indexed", ErrInvariant, d.ID(), r.ID())
			}
			count++
		}
	}
	if count != len(m.doors) {
		return fmt.Errorf("%w: %d indexed doors, %d owned by live rooms", ErrInvariant, len(m.doors), count)
	}

	m.spawnedFrom.Each(func(id entities.DoorID) {
		if err == nil && m.OwnerOf(id) == nil {
			err = fmt.Errorf("%w: spawnedFrom holds door %d with no live owner", ErrInvariant, id)
		}
	})
	return err
}
